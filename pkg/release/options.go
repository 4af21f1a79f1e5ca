package release

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/relstage/relstage/pkg/version"
)

// Option is a functor to pass various options to a release operation
type Option func(*Operation)

// ConfirmFunc decides whether a history rewrite may proceed. The
// prompt describes the commits about to be dropped. The default
// declines, so rewrites never happen without an explicit callback.
type ConfirmFunc func(prompt string) bool

// StepObserver is notified whenever the operation enters a step
type StepObserver func(step Step)

// WithKind defines the kind of bump used to resolve the next version
func WithKind(kind version.Kind) Option {
	return func(op *Operation) {
		op.kind = kind
	}
}

// WithExplicitVersion defines a literal next version, bypassing bump
// resolution
func WithExplicitVersion(v version.Version) Option {
	return func(op *Operation) {
		op.explicit = &v
	}
}

// WithSettings defines the settings of the operation
func WithSettings(settings Settings) Option {
	return func(op *Operation) {
		op.settings = settings
		if op.settings.Dir == "" {
			op.settings.Dir = "."
		}
	}
}

// WithLogger defines the logger used by the operation
func WithLogger(l *zap.Logger) Option {
	return func(op *Operation) {
		if l != nil {
			op.l = l
		}
	}
}

// WithFS defines the file system abstraction used to read and rewrite
// the version declaration file
func WithFS(fs afero.Fs) Option {
	return func(op *Operation) {
		if fs != nil {
			op.fs = fs
		}
	}
}

// WithConfirm defines the callback consulted before a history rewrite
func WithConfirm(confirm ConfirmFunc) Option {
	return func(op *Operation) {
		if confirm != nil {
			op.confirm = confirm
		}
	}
}

// WithStepObserver defines a callback invoked on every step transition
func WithStepObserver(observe StepObserver) Option {
	return func(op *Operation) {
		if observe != nil {
			op.observe = observe
		}
	}
}
