package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/vcs/mocks"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ExitMocks struct {
	mock.Mock
	exitStatuses []int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	fmt.Printf(format+"\n", v...)
	m.exitStatuses = append(m.exitStatuses, 1)
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	fmt.Println(v...)
	m.exitStatuses = append(m.exitStatuses, 1)
}

func (m *ExitMocks) Exit(code int) {
	m.exitStatuses = append(m.exitStatuses, code)
}

func (m *ExitMocks) fatalCalls() int {
	return len(m.exitStatuses)
}

func NewExitMocks() *ExitMocks {
	return &ExitMocks{
		exitStatuses: make([]int, 0),
	}
}

// https://github.com/stretchr/testify/issues/610
func MakeFatalfMock(m *ExitMocks) func(string, ...interface{}) {
	return func(format string, v ...interface{}) {
		m.Fatalf(format, v...)
	}
}

func MakeFatallnMock(m *ExitMocks) func(...interface{}) {
	return func(v ...interface{}) {
		m.Fatalln(v...)
	}
}

func MakeExitMock(m *ExitMocks) func(int) {
	return func(code int) {
		m.Exit(code)
	}
}

var exitMocks *ExitMocks

func pyprojectDoc(current string) string {
	return fmt.Sprintf(`[build-system]
requires = ["setuptools>=61"]
build-backend = "setuptools.build_meta"

[project]
name = "sample-service"
version = %q
requires-python = ">=3.9"
`, current)
}

func seriesFixture() *mocks.Repo {
	return &mocks.Repo{
		Tags: []string{
			"v1.2.3",
			"v1.3.0.dev1",
			"v1.3.0a1",
			"v1.3.0b1",
			"v1.3.0rc1",
			"v1.3.0rc2",
		},
		Commits: map[string]vcs.Commit{
			"v1.3.0.dev1": {SHA: "d0d0d0d0d0d0", Subject: "Bump version to 1.3.0.dev1"},
			"v1.3.0a1":    {SHA: "a1a1a1a1a1a1", Subject: "Bump version to 1.3.0a1"},
			"v1.3.0b1":    {SHA: "b1b1b1b1b1b1", Subject: "Bump version to 1.3.0b1"},
			"v1.3.0rc1":   {SHA: "c1c1c1c1c1c1", Subject: "Bump version to 1.3.0rc1"},
			"v1.3.0rc2":   {SHA: "c2c2c2c2c2c2", Subject: "Bump version to 1.3.0rc2"},
		},
		Touched: map[string][]string{
			"d0d0d0d0d0d0": {"pyproject.toml"},
			"a1a1a1a1a1a1": {"pyproject.toml"},
			"b1b1b1b1b1b1": {"pyproject.toml"},
			"c1c1c1c1c1c1": {"pyproject.toml"},
			"c2c2c2c2c2c2": {"pyproject.toml"},
		},
		Diffs: map[string][]string{
			"v1.3.0.dev1..HEAD": {"pyproject.toml"},
		},
	}
}

// setupCLI patches the package globals for one test: fatal handlers, the
// repository factory, the file system and the output streams. It yields
// the buffer collecting everything the commands print.
func setupCLI(t *testing.T, repo *mocks.Repo, current string) *bytes.Buffer {
	exitMocks = NewExitMocks()
	logFatalf = MakeFatalfMock(exitMocks)
	logFatalln = MakeFatallnMock(exitMocks)
	osExit = MakeExitMock(exitMocks)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "pyproject.toml", []byte(pyprojectDoc(current)), 0644))
	releaseFS = fs

	newVCS = func(_ string, _ *zap.Logger) vcs.Repo {
		return repo
	}

	buf := new(bytes.Buffer)
	outputWriter = buf
	infoLogger = log.New(buf, "", 0)
	logStdOut = func(format string, args ...interface{}) (int, error) {
		return fmt.Fprintf(buf, format, args...)
	}

	// keep viper away from any config file the environment may carry
	viper.Reset()
	t.Setenv(envConfigLocation, filepath.Join(t.TempDir(), "relstage.yaml"))

	t.Cleanup(func() {
		logFatalf = log.Fatalf
		logFatalln = log.Fatalln
		osExit = os.Exit
		releaseFS = afero.NewOsFs()
		newVCS = defaultVCS
		outputWriter = os.Stdout
		infoLogger = log.New(os.Stdout, "", 0)
		logStdOut = fmt.Printf
		relstageFlags = flagsT{}
		relstageFlags.root.format = "table"
		viper.Reset()
	})
	return buf
}

func runCmd(t *testing.T, cmd []string, intentMsg string, expectError bool) {
	fatalCallsBefore := exitMocks.fatalCalls()

	// pflag only binds flag defaults at registration time, so restore
	// them after wiping the previous invocation
	relstageFlags = flagsT{}
	relstageFlags.root.format = "table"
	relstageFlags.root.logLevel = "none"

	rootCmd.SetArgs(cmd)
	require.NoError(t, rootCmd.Execute(), "error executing '"+strings.Join(cmd, " ")+"' : "+intentMsg)
	if expectError {
		require.Equal(t, fatalCallsBefore+1, exitMocks.fatalCalls(),
			"ran '"+strings.Join(cmd, " ")+"' expecting error and didn't see one in mocks : "+intentMsg)
	} else {
		require.Equal(t, fatalCallsBefore, exitMocks.fatalCalls(),
			"unexpected error in mocks on '"+strings.Join(cmd, " ")+"' : "+intentMsg)
	}
}

func TestBumpCommand(t *testing.T) {
	repo := &mocks.Repo{Tags: []string{"v1.2.3"}}
	buf := setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"bump", "minor", "--no-push"}, "bump the minor number", false)

	assert.Equal(t, []string{"v1.3.0"}, repo.CreatedTags)
	require.Len(t, repo.CommitMessages, 1)
	assert.Equal(t, "Bump version to 1.3.0", repo.CommitMessages[0])
	assert.Zero(t, repo.Pushes)
	assert.Zero(t, repo.TagPushes)

	data, err := afero.ReadFile(releaseFS, "pyproject.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `version = "1.3.0"`)

	out := buf.String()
	assert.Contains(t, out, "version bumped from 1.2.3 to 1.3.0 on branch main")
	assert.Contains(t, out, "v1.3.0")
	assert.Contains(t, out, "nothing pushed")
}

func TestBumpCommandPushes(t *testing.T) {
	repo := &mocks.Repo{Tags: []string{"v2.0.0"}}
	buf := setupCLI(t, repo, "2.0.0")

	runCmd(t, []string{"bump", "rc"}, "bump to a release candidate", false)

	assert.Equal(t, []string{"v2.0.1rc1"}, repo.CreatedTags)
	assert.Equal(t, 1, repo.Pushes)
	assert.Equal(t, 1, repo.TagPushes)
	assert.NotContains(t, buf.String(), "nothing pushed")
}

func TestBumpInvalidTarget(t *testing.T) {
	repo := &mocks.Repo{Tags: []string{"v1.2.3"}}
	setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"bump", "carrots"}, "reject a bogus bump target", true)

	assert.Empty(t, repo.CommitMessages)
	assert.Empty(t, repo.CreatedTags)
	assert.Empty(t, repo.Ops)
}

func TestBumpOutsideRepository(t *testing.T) {
	repo := &mocks.Repo{NotARepo: true}
	setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"bump", "patch"}, "refuse to run outside a repository", true)

	assert.Empty(t, repo.CommitMessages)
	assert.Empty(t, repo.CreatedTags)
}

func TestBumpPartialFailure(t *testing.T) {
	repo := &mocks.Repo{
		Tags:   []string{"v1.2.3"},
		FailOn: map[string]error{"Push": errors.New("connection reset")},
	}
	setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"bump", "minor"}, "report a partially applied release", true)

	// the local release went through, only the push failed
	assert.Equal(t, []int{exitPartial}, exitMocks.exitStatuses)
	assert.Equal(t, []string{"v1.3.0"}, repo.CreatedTags)
	require.Len(t, repo.CommitMessages, 1)
}

func TestBumpFinalizeSeries(t *testing.T) {
	repo := seriesFixture()
	buf := setupCLI(t, repo, "1.3.0rc2")

	runCmd(t, []string{"bump", "patch", "--drop-prereleases", "--force", "--no-push"},
		"finalize the 1.3.0 series dropping its bump commits", false)

	require.Len(t, repo.Dropped, 1)
	assert.Equal(t, []string{
		"d0d0d0d0d0d0",
		"a1a1a1a1a1a1",
		"b1b1b1b1b1b1",
		"c1c1c1c1c1c1",
		"c2c2c2c2c2c2",
	}, repo.Dropped[0])
	assert.ElementsMatch(t, []string{
		"v1.3.0.dev1", "v1.3.0a1", "v1.3.0b1", "v1.3.0rc1", "v1.3.0rc2",
	}, repo.DeletedTags)
	assert.Empty(t, repo.RemoteDeleted)
	assert.Zero(t, repo.ForcePushes)
	assert.ElementsMatch(t, []string{"v1.2.3", "v1.3.0"}, repo.Tags)

	out := buf.String()
	assert.Contains(t, out, "dropped 5 pre-release bump commits")
	assert.Contains(t, out, "retired pre-release tags:")
}

func TestPreviewCommandJSON(t *testing.T) {
	repo := seriesFixture()
	buf := setupCLI(t, repo, "1.3.0rc2")

	runCmd(t, []string{"preview", "patch", "--format", "json"}, "preview the finalization", false)

	var payload struct {
		Previous    string   `json:"previous"`
		Next        string   `json:"next"`
		Tag         string   `json:"tag"`
		Branch      string   `json:"branch"`
		RemovedTags []string `json:"removedTags"`
		LastStep    string   `json:"lastStep"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload), "unexpected preview output: %s", buf.String())
	assert.Equal(t, "1.3.0rc2", payload.Previous)
	assert.Equal(t, "1.3.0", payload.Next)
	assert.Equal(t, "v1.3.0", payload.Tag)
	assert.Equal(t, "main", payload.Branch)
	assert.Len(t, payload.RemovedTags, 5)

	// nothing was touched
	assert.Empty(t, repo.CreatedTags)
	assert.Empty(t, repo.CommitMessages)
	data, err := afero.ReadFile(releaseFS, "pyproject.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `version = "1.3.0rc2"`)
}

func TestPreviewCommandTable(t *testing.T) {
	repo := seriesFixture()
	buf := setupCLI(t, repo, "1.3.0rc2")

	runCmd(t, []string{"preview", "patch"}, "preview with the default rendering", false)

	out := buf.String()
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "1.3.0rc2 -> 1.3.0")
	assert.Contains(t, out, "Release tag")
	assert.Contains(t, out, "Tags to retire")
	assert.NotContains(t, out, "Commits to drop")
}

func TestTagCommand(t *testing.T) {
	repo := &mocks.Repo{Tags: []string{"v1.2.2"}}
	buf := setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"tag", "--tag-message", "release {current}", "--no-push"},
		"tag the declared version", false)

	assert.Equal(t, []string{"v1.2.3"}, repo.CreatedTags)
	assert.Equal(t, "release 1.2.3", repo.TagMessages["v1.2.3"])
	assert.Zero(t, repo.TagPushes)
	assert.Empty(t, repo.CommitMessages)
	assert.Contains(t, buf.String(), "tagged version 1.2.3")
}

func TestConfigFilePrecedence(t *testing.T) {
	repo := &mocks.Repo{Tags: []string{"rel-1.2.3"}}
	buf := setupCLI(t, repo, "1.2.3")

	cfg := os.Getenv(envConfigLocation)
	require.NoError(t, os.WriteFile(cfg, []byte(
		"tag-prefix: rel-\nmessage-template: 'chore: bump {current} to {new}'\n"), 0600))

	runCmd(t, []string{"bump", "patch", "--no-push"}, "bump with config file defaults", false)

	assert.Equal(t, []string{"rel-1.2.4"}, repo.CreatedTags)
	require.Len(t, repo.CommitMessages, 1)
	assert.Equal(t, "chore: bump 1.2.3 to 1.2.4", repo.CommitMessages[0])
	assert.Contains(t, buf.String(), "Using config file:")

	// explicit flags win over the config file
	runCmd(t, []string{"bump", "patch", "--no-push", "--tag-prefix", "v", "--message", "v{new}"},
		"bump with overriding flags", false)

	assert.Equal(t, []string{"rel-1.2.4", "v1.2.5"}, repo.CreatedTags)
	require.Len(t, repo.CommitMessages, 2)
	assert.Equal(t, "v1.2.5", repo.CommitMessages[1])
}

func TestConfigSetCommand(t *testing.T) {
	repo := &mocks.Repo{}
	buf := setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"config", "set", "--tag-prefix", "v", "--remote", "upstream"},
		"write the config file", false)

	data, err := afero.ReadFile(releaseFS, os.Getenv(envConfigLocation))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tag-prefix: v")
	assert.Contains(t, string(data), "remote: upstream")
	assert.Contains(t, buf.String(), "config file created in")
}

func TestConfigDumpCommand(t *testing.T) {
	repo := &mocks.Repo{}
	buf := setupCLI(t, repo, "1.2.3")

	cfg := os.Getenv(envConfigLocation)
	require.NoError(t, os.WriteFile(cfg, []byte("tag-prefix: rel-\nremote: upstream\n"), 0600))

	runCmd(t, []string{"config", "dump"}, "print the effective config", false)

	out := buf.String()
	assert.Contains(t, out, "tag-prefix: rel-")
	assert.Contains(t, out, "remote: upstream")
}

func TestVersionCommand(t *testing.T) {
	repo := &mocks.Repo{}
	buf := setupCLI(t, repo, "1.2.3")

	runCmd(t, []string{"version"}, "print the build version", false)

	assert.Contains(t, buf.String(), "Version: dev")
}
