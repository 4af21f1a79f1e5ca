package gitcli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstage/relstage/pkg/errors"
	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/vcs/status"
)

type call struct {
	env  []string
	args []string
}

// scripted returns a Repo whose runner replays canned outputs keyed by
// the joined argument list, recording every invocation.
func scripted(outputs map[string]string, failures map[string]error) (*Repo, *[]call) {
	calls := &[]call{}
	r := New("/work")
	r.run = func(_ context.Context, dir, binary string, env []string, args ...string) (string, error) {
		*calls = append(*calls, call{env: env, args: args})
		key := strings.Join(args, " ")
		if err, ok := failures[key]; ok {
			return "", err
		}
		return outputs[key], nil
	}
	return r, calls
}

func toolErr(msg string) error {
	return status.ErrTool.Wrap(fmt.Errorf("%s", msg))
}

func TestCheckRepository(t *testing.T) {
	r, _ := scripted(map[string]string{"rev-parse --is-inside-work-tree": "true\n"}, nil)
	require.NoError(t, r.CheckRepository(context.Background()))

	r, _ = scripted(map[string]string{"rev-parse --is-inside-work-tree": "false\n"}, nil)
	err := r.CheckRepository(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotARepository))

	r, _ = scripted(nil, map[string]error{"rev-parse --is-inside-work-tree": toolErr("fatal: not a git repository")})
	err = r.CheckRepository(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotARepository))
}

func TestCurrentBranch(t *testing.T) {
	r, _ := scripted(map[string]string{"symbolic-ref --short HEAD": "main\n"}, nil)
	branch, err := r.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	r, _ = scripted(nil, map[string]error{"symbolic-ref --short HEAD": toolErr("fatal: ref HEAD is not a symbolic ref")})
	_, err = r.CurrentBranch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrDetachedHead))
}

func TestUncommittedFiles(t *testing.T) {
	porcelain := " M pyproject.toml\n?? notes.txt\nR  old.py -> new.py\nA  \"with space.txt\"\n"
	r, _ := scripted(map[string]string{"status --porcelain": porcelain}, nil)

	entries, err := r.UncommittedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []vcs.FileStatus{
		{Path: "pyproject.toml", Code: " M"},
		{Path: "notes.txt", Code: "??"},
		{Path: "new.py", Code: "R "},
		{Path: "with space.txt", Code: "A "},
	}, entries)

	dirty, err := r.IsDirty(context.Background())
	require.NoError(t, err)
	assert.True(t, dirty)

	r, _ = scripted(map[string]string{"status --porcelain": ""}, nil)
	dirty, err = r.IsDirty(context.Background())
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestListTags(t *testing.T) {
	r, calls := scripted(map[string]string{
		"tag --list --sort=version:refname": "v0.9.0\nv1.0.0a1\nv1.0.0\n",
	}, nil)
	tags, err := r.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"v0.9.0", "v1.0.0a1", "v1.0.0"}, tags)
	require.Len(t, *calls, 1)
}

func TestTagExists(t *testing.T) {
	r, _ := scripted(map[string]string{"tag --list v1.0.0": "v1.0.0\n"}, nil)
	ok, err := r.TagExists(context.Background(), "v1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.TagExists(context.Background(), "v2.0.0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveTagCommit(t *testing.T) {
	r, _ := scripted(map[string]string{
		"rev-list -n 1 v1.0.0a1":    "abc123\n",
		"log -1 --format=%s abc123": "Bump version to 1.0.0a1\n",
	}, nil)
	commit, err := r.ResolveTagCommit(context.Background(), "v1.0.0a1")
	require.NoError(t, err)
	assert.Equal(t, "abc123", commit.SHA)
	assert.Equal(t, "Bump version to 1.0.0a1", commit.Subject)

	r, _ = scripted(nil, map[string]error{"rev-list -n 1 v9.9.9": toolErr("fatal: ambiguous argument")})
	_, err = r.ResolveTagCommit(context.Background(), "v9.9.9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoSuchTag))
}

func TestCreateTag(t *testing.T) {
	r, calls := scripted(nil, nil)
	require.NoError(t, r.CreateTag(context.Background(), "v1.0.0", ""))
	require.NoError(t, r.CreateTag(context.Background(), "v1.0.1", "first fix release"))
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"tag", "v1.0.0"}, (*calls)[0].args)
	assert.Equal(t, []string{"tag", "-a", "v1.0.1", "-m", "first fix release"}, (*calls)[1].args)

	r, _ = scripted(nil, map[string]error{"tag v1.0.0": toolErr("fatal: tag 'v1.0.0' already exists")})
	err := r.CreateTag(context.Background(), "v1.0.0", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTagExists))
}

func TestCommit(t *testing.T) {
	r, calls := scripted(nil, nil)
	require.NoError(t, r.Commit(context.Background(), "Bump version to 1.2.4", []string{"pyproject.toml"}))
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"add", "--", "pyproject.toml"}, (*calls)[0].args)
	assert.Equal(t, []string{"commit", "-m", "Bump version to 1.2.4", "--", "pyproject.toml"}, (*calls)[1].args)
}

func TestPushes(t *testing.T) {
	r, calls := scripted(nil, nil)
	require.NoError(t, r.Push(context.Background()))
	require.NoError(t, r.PushTags(context.Background()))
	require.NoError(t, r.ForcePush(context.Background()))
	require.Len(t, *calls, 3)
	assert.Equal(t, []string{"push", "origin"}, (*calls)[0].args)
	assert.Equal(t, []string{"push", "origin", "--tags"}, (*calls)[1].args)
	assert.Equal(t, []string{"push", "--force-with-lease", "origin"}, (*calls)[2].args)

	r, calls = scripted(nil, nil)
	WithRemote("upstream")(r)
	require.NoError(t, r.Push(context.Background()))
	assert.Equal(t, []string{"push", "upstream"}, (*calls)[0].args)
}

func TestDeleteTags(t *testing.T) {
	r, calls := scripted(nil, nil)
	require.NoError(t, r.DeleteTag(context.Background(), "v1.0.0a1"))
	assert.Equal(t, []string{"tag", "--delete", "v1.0.0a1"}, (*calls)[0].args)

	require.NoError(t, r.DeleteRemoteTags(context.Background(), nil))
	require.Len(t, *calls, 1, "expected no push for an empty tag list")

	require.NoError(t, r.DeleteRemoteTags(context.Background(), []string{"v1.0.0a1", "v1.0.0a2"}))
	assert.Equal(t, []string{"push", "--delete", "origin", "v1.0.0a1", "v1.0.0a2"}, (*calls)[1].args)
}

func TestStashSave(t *testing.T) {
	r, calls := scripted(map[string]string{"status --porcelain": ""}, nil)
	created, err := r.StashSave(context.Background(), "marker-1")
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, *calls, 1, "expected a clean tree to skip the stash")

	r, calls = scripted(map[string]string{"status --porcelain": " M pyproject.toml\n"}, nil)
	created, err = r.StashSave(context.Background(), "marker-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"stash", "push", "-m", "marker-1"}, (*calls)[1].args)
}

func TestStashPop(t *testing.T) {
	list := "stash@{0} On main: something else\nstash@{1} On main: marker-xyz\n"
	r, calls := scripted(map[string]string{"stash list --format=%gd %gs": list}, nil)
	require.NoError(t, r.StashPop(context.Background(), "marker-xyz"))
	assert.Equal(t, []string{"stash", "pop", "stash@{1}"}, (*calls)[1].args)

	r, _ = scripted(map[string]string{"stash list --format=%gd %gs": list}, nil)
	err := r.StashPop(context.Background(), "marker-unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTool))
}

func TestDropCommits(t *testing.T) {
	revList := "aaa\nbbb\nccc\nddd\n"
	var todo string
	r, calls := scripted(map[string]string{"rev-list --reverse aaa^..HEAD": revList}, nil)
	baseRun := r.run
	r.run = func(ctx context.Context, dir, binary string, env []string, args ...string) (string, error) {
		// capture the generated todo before the temp file goes away
		if len(args) > 0 && args[0] == "rebase" && len(env) == 1 {
			path := strings.TrimPrefix(env[0], "GIT_SEQUENCE_EDITOR=cp ")
			data, err := os.ReadFile(strings.Trim(path, `"`))
			if err != nil {
				return "", err
			}
			todo = string(data)
		}
		return baseRun(ctx, dir, binary, env, args...)
	}

	require.NoError(t, r.DropCommits(context.Background(), []string{"aaa", "ccc"}))
	last := (*calls)[len(*calls)-1]
	assert.Equal(t, []string{"rebase", "-i", "aaa^"}, last.args)
	require.Len(t, last.env, 1)
	assert.True(t, strings.HasPrefix(last.env[0], "GIT_SEQUENCE_EDITOR=cp "))
	assert.Equal(t, "drop aaa\npick bbb\ndrop ccc\npick ddd\n", todo)
}

func TestDropCommitsEmpty(t *testing.T) {
	r, calls := scripted(nil, nil)
	require.NoError(t, r.DropCommits(context.Background(), nil))
	assert.Empty(t, *calls)
}

func TestDropCommitsMissingTarget(t *testing.T) {
	r, calls := scripted(map[string]string{"rev-list --reverse aaa^..HEAD": "aaa\nbbb\n"}, nil)
	err := r.DropCommits(context.Background(), []string{"aaa", "zzz"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTool))
	for _, c := range *calls {
		assert.NotEqual(t, "rebase", c.args[0], "expected no rebase attempt")
	}
}

func TestDropCommitsAbortsOnFailure(t *testing.T) {
	r, calls := scripted(
		map[string]string{"rev-list --reverse aaa^..HEAD": "aaa\nbbb\n"},
		map[string]error{"rebase -i aaa^": toolErr("could not apply bbb")},
	)
	err := r.DropCommits(context.Background(), []string{"aaa"})
	require.Error(t, err)
	last := (*calls)[len(*calls)-1]
	assert.Equal(t, []string{"rebase", "--abort"}, last.args)
}
