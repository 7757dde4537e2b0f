package canon

import "errors"

var (
	// ErrUnknownFormat is returned when a caller supplies a source format
	// string outside the closed SourceFormat set.
	ErrUnknownFormat = errors.New("unknown source format")

	// ErrUnknownTarget is returned by Emit for a target outside the closed
	// emitter set.
	ErrUnknownTarget = errors.New("unknown emit target")

	// errNotObject is the structural-parse failure for a document that is
	// not a JSON object. It surfaces as a canonicalization warning.
	errNotObject = errors.New("document is not a JSON object")
)
