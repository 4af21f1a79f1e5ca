// Package status exports errors produced by the version package.
package status

import (
	"github.com/relstage/relstage/pkg/errors"
)

var (
	// ErrInvalidVersion indicates a version string that does not follow the supported grammar
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidProgression indicates a bump that the progression rules do not allow
	ErrInvalidProgression = errors.New("invalid version progression")

	// ErrUnknownKind indicates an unrecognized bump kind name
	ErrUnknownKind = errors.New("unknown bump kind")
)
