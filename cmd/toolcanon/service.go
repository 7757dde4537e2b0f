package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var serviceActions = map[string]bool{
	"install":   true,
	"uninstall": true,
	"start":     true,
	"stop":      true,
}

// controlProgram satisfies the service manager's interface for control
// actions. The installed unit runs "toolcanon serve", so Start and Stop
// here never execute.
type controlProgram struct{}

func (controlProgram) Start(service.Service) error { return nil }
func (controlProgram) Stop(service.Service) error  { return nil }

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service <install|uninstall|start|stop>",
		Short: "Manage toolcanon as a system service running the gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[0]
			if !serviceActions[action] {
				return fmt.Errorf("unknown action %q (want install, uninstall, start, or stop)", action)
			}

			arguments := []string{"serve"}
			if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
				arguments = append(arguments, "-c", cfgPath)
			}

			svc, err := service.New(controlProgram{}, &service.Config{
				Name:        "toolcanon",
				DisplayName: "toolcanon gateway",
				Description: "Canonicalization gateway for AI tool definitions.",
				Arguments:   arguments,
			})
			if err != nil {
				return err
			}

			if err := service.Control(svc, action); err != nil {
				return err
			}

			fmt.Printf("service %s: done\n", action)
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to configuration file for the installed service")

	return cmd
}
