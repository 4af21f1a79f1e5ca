package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/vcs/gitcli"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// globals used to patch over the repository, file system and output during test

	newVCS       = defaultVCS
	releaseFS    afero.Fs = afero.NewOsFs()
	outputWriter io.Writer = os.Stdout

	// infoLogger wraps informative messages to os.Stdout without cluttering expected output in tests.
	// To be used instead of fmt.Printf(os.Stdout, ...)
	infoLogger = log.New(os.Stdout, "", 0)
	logStdOut  = fmt.Printf
)

func defaultVCS(dir string, l *zap.Logger) vcs.Repo {
	opts := []gitcli.Option{
		gitcli.WithLogger(l),
	}
	if remote := relstageFlags.target.Remote; remote != "" {
		opts = append(opts, gitcli.WithRemote(remote))
	}
	return gitcli.New(dir, opts...)
}

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
	}
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}
