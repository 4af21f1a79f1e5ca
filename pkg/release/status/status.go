// Package status exports errors produced by the release package.
package status

import (
	"github.com/relstage/relstage/pkg/errors"
)

var (
	// ErrHistoryUnsafe indicates that dropping the pre-release commits
	// would lose work beyond the version declaration file
	ErrHistoryUnsafe = errors.New("history rewrite is not safe")

	// ErrPartial indicates a failure after the repository was already
	// modified: the message names the failing step so the operator
	// knows what is left to do by hand
	ErrPartial = errors.New("release partially applied")
)
