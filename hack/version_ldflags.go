//go:build ignore
// +build ignore

// Command version_ldflags prints the -ldflags value wiring build metadata
// into the relstage version command:
//
//	go build -ldflags "$(go run hack/version_ldflags.go)" ./cmd/relstage
package main

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"gotest.tools/v3/icmd"
)

const pkg = "github.com/relstage/relstage/cmd/relstage/cmd"

var versionRe = regexp.MustCompile(`(?m)^v.*`)

func main() {
	flags := make([]string, 0, 4)
	if v := releaseTag(); v != "" {
		flags = append(flags, fmt.Sprintf("-X %s.Version=%s", pkg, v))
	}
	commit := gitOutput("rev-parse", "HEAD")
	if commit == "" {
		log.Fatal("cannot resolve HEAD")
	}
	flags = append(flags,
		fmt.Sprintf("-X %s.GitCommit=%s", pkg, commit),
		fmt.Sprintf("-X %s.BuildDate=%s", pkg, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("-X %s.GitState=%s", pkg, state()),
	)
	fmt.Println(strings.Join(flags, " "))
}

// releaseTag yields the single v-prefixed tag at HEAD, or nothing
func releaseTag() string {
	tags := versionRe.FindAllString(gitOutput("tag", "--points-at", "HEAD"), -1)
	switch len(tags) {
	case 0:
		return ""
	case 1:
		return tags[0]
	default:
		log.Fatalf("ambiguous tags at HEAD: multiple tags begin with 'v': %v", tags)
		return ""
	}
}

func state() string {
	res := icmd.RunCommand("git", "status", "--porcelain")
	if res.ExitCode != 0 || strings.TrimSpace(res.Stdout()) != "" {
		return "dirty"
	}
	return "clean"
}

func gitOutput(args ...string) string {
	res := icmd.RunCommand("git", args...)
	if res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(res.Stdout())
}
