package terraform

import (
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound signals that a module, provider, block or attribute the
	// caller asked for does not exist in the scanned configuration.
	ErrNotFound = errors.Base("not found")

	// ErrUnsupportedValue signals a variable value the serializer refuses to
	// guess an encoding for, such as a nested object.
	ErrUnsupportedValue = errors.Base("unsupported variable value")
)
