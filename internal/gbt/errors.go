// internal/gbt/errors.go
package gbt

import "errors"

// Error kinds. Every failure is fatal to the enclosing operation;
// match with errors.Is, the message carries the offending OH/GBT/VFAT/phase.
var (
	// ErrUsage reports a caller mistake, e.g. too many config files.
	ErrUsage = errors.New("usage error")

	// ErrValidation reports bad input data, e.g. a short config file.
	ErrValidation = errors.New("validation error")

	// ErrRemote reports a failed remote call or a non-zero board status.
	ErrRemote = errors.New("remote call failed")

	// ErrFileIntegrity reports a results file with a foreign header or no trailing newline.
	ErrFileIntegrity = errors.New("file integrity error")
)
