// Package status exports errors produced by the manifest package.
package status

import (
	"github.com/relstage/relstage/pkg/errors"
)

var (
	// ErrNotFound indicates that no version declaration file could be located
	ErrNotFound = errors.New("no version declaration file found")

	// ErrUnsupported indicates a declaration file in a format we cannot handle
	ErrUnsupported = errors.New("unsupported version declaration format")

	// ErrNoVersionField indicates a declaration file without a version field
	ErrNoVersionField = errors.New("no version field in declaration file")

	// ErrAccess indicates a failure to read or write the declaration file
	ErrAccess = errors.New("cannot access version declaration file")

	// ErrRoundTrip indicates that a rewritten declaration file no longer
	// parses back to the version just written
	ErrRoundTrip = errors.New("rewritten declaration failed verification")
)
