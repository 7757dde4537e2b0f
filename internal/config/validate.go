package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/robfig/cron/v3"
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the structural validity of a Config. It verifies the
// version field, the bind address, the refresh schedule, and telemetry and
// logging settings. All problems are reported at once via errors.Join.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.Server.Bind); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid bind address %q: %w", cfg.Server.Bind, err))
	}

	if cfg.Refresh.Enabled {
		if _, err := cron.ParseStandard(cfg.Refresh.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid refresh schedule %q: %w", cfg.Refresh.Schedule, err))
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("config: telemetry.enabled is true but no endpoint provided"))
	}

	if !logLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Errorf("config: unknown log level %q", cfg.Log.Level))
	}

	return errors.Join(errs...)
}
