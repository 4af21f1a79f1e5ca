package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstage/relstage/pkg/errors"
	"github.com/relstage/relstage/pkg/version/status"
)

func TestParse(t *testing.T) {
	for _, toPin := range []struct {
		text     string
		expected Version
	}{
		{"0.0.0", Version{}},
		{"1.2.3", Version{Major: 1, Minor: 2, Patch: 3}},
		{"10.20.30", Version{Major: 10, Minor: 20, Patch: 30}},
		{"1.2.3.dev1", Version{Major: 1, Minor: 2, Patch: 3, Stage: StageDev, Number: 1}},
		{"1.2.3.dev42", Version{Major: 1, Minor: 2, Patch: 3, Stage: StageDev, Number: 42}},
		{"1.2.3a1", Version{Major: 1, Minor: 2, Patch: 3, Stage: StageAlpha, Number: 1}},
		{"1.2.3b2", Version{Major: 1, Minor: 2, Patch: 3, Stage: StageBeta, Number: 2}},
		{"1.2.3rc10", Version{Major: 1, Minor: 2, Patch: 3, Stage: StageRC, Number: 10}},
		{"1.2.3.post1", Version{Major: 1, Minor: 2, Patch: 3, Stage: StagePost, Number: 1}},
		{"0.1.0.post7", Version{Minor: 1, Stage: StagePost, Number: 7}},
	} {
		testcase := toPin
		t.Run(testcase.text, func(t *testing.T) {
			v, err := Parse(testcase.text)
			require.NoError(t, err)
			assert.Equal(t, testcase.expected, v)
			assert.Equal(t, testcase.text, v.String(), "expected the parsed value to render back to its input")
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, toPin := range []string{
		"",
		"1",
		"1.2",
		"1.2.3.4",
		"v1.2.3",
		"x.2.3",
		"1.x.3",
		"1.2.x",
		"-1.2.3",
		"1.-2.3",
		"1.2.3-alpha",
		"1.2.3c1",
		"1.2.3a",
		"1.2.3a0",
		"1.2.3rc",
		"1.2.3.dev",
		"1.2.3.dev0",
		"1.2.3.post",
		"1.2.3.post0",
		"1.2.3.dev1a2",
		"1.2.3a1.post1",
		"1.2.3 ",
		" 1.2.3",
	} {
		testcase := toPin
		t.Run(testcase, func(t *testing.T) {
			_, err := Parse(testcase)
			require.Error(t, err)
			assert.True(t, errors.Is(err, status.ErrInvalidVersion))
		})
	}
}

func TestParseSuffixPrecedence(t *testing.T) {
	// .post and .dev are matched before the inline stage markers, so
	// the letters they contain never read as alpha or beta suffixes
	v, err := Parse("1.2.3.post2")
	require.NoError(t, err)
	assert.Equal(t, StagePost, v.Stage)

	v, err = Parse("1.2.3.dev2")
	require.NoError(t, err)
	assert.Equal(t, StageDev, v.Stage)

	// a mixed suffix leaves a base that is not a plain triple
	_, err = Parse("1.2.3a1.dev1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidVersion))
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = MustParse("1.2.3rc1")
	})
	assert.Panics(t, func() {
		_ = MustParse("not-a-version")
	})
}
