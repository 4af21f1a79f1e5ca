package gitcli

import (
	"go.uber.org/zap"
)

// Option is a functor to build a repository handle with some options
type Option func(*Repo)

// WithLogger defines the logger used to trace git invocations
func WithLogger(l *zap.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.l = l
		}
	}
}

// WithRemote defines the remote used for pushes and remote tag deletion
func WithRemote(remote string) Option {
	return func(r *Repo) {
		if remote != "" {
			r.remote = remote
		}
	}
}

// WithBinary defines the git binary to execute
func WithBinary(binary string) Option {
	return func(r *Repo) {
		if binary != "" {
			r.binary = binary
		}
	}
}
