// Package version implements parsing, formatting and progression of
// PEP 440 style versions: a MAJOR.MINOR.PATCH triple with an optional
// release stage suffix, e.g. 1.2.3, 1.2.3.dev1, 1.2.3a2, 1.2.3b1,
// 1.2.3rc4 or 1.2.3.post1.
//
// The stage suffixes are mutually exclusive: a version carries at most
// one of them, with a strictly positive stage number.
package version

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Stage is the release stage a version sits at.
type Stage uint8

const (
	// StageNone denotes a final release without suffix
	StageNone Stage = iota

	// StageDev denotes a development iteration (.devN)
	StageDev

	// StageAlpha denotes an alpha pre-release (aN)
	StageAlpha

	// StageBeta denotes a beta pre-release (bN)
	StageBeta

	// StageRC denotes a release candidate (rcN)
	StageRC

	// StagePost denotes a post-release (.postN)
	StagePost
)

// String yields the suffix marker for this stage ("" for final releases)
func (s Stage) String() string {
	switch s {
	case StageDev:
		return "dev"
	case StageAlpha:
		return "a"
	case StageBeta:
		return "b"
	case StageRC:
		return "rc"
	case StagePost:
		return "post"
	}
	return ""
}

// Version is an immutable version value.
//
// Number is strictly positive whenever Stage is set, zero otherwise.
type Version struct {
	Major  uint
	Minor  uint
	Patch  uint
	Stage  Stage
	Number uint
}

// String renders the canonical form, e.g. "1.2.3", "1.2.3.dev1",
// "1.2.3a2" or "1.2.3.post1".
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	switch v.Stage {
	case StageNone:
		return base
	case StageDev, StagePost:
		return fmt.Sprintf("%s.%s%d", base, v.Stage, v.Number)
	default:
		return fmt.Sprintf("%s%s%d", base, v.Stage, v.Number)
	}
}

// Base strips any stage suffix, keeping the MAJOR.MINOR.PATCH triple
func (v Version) Base() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// IsPrerelease tells whether the version sits before its final release (dev, alpha, beta or rc)
func (v Version) IsPrerelease() bool {
	switch v.Stage {
	case StageDev, StageAlpha, StageBeta, StageRC:
		return true
	}
	return false
}

// IsFinal tells whether the version is a plain release without suffix
func (v Version) IsFinal() bool {
	return v.Stage == StageNone
}

// IsPost tells whether the version is a post-release
func (v Version) IsPost() bool {
	return v.Stage == StagePost
}

// Compare yields -1, 0 or 1 following the PEP 440 ordering for the
// supported grammar: at an equal triple, dev < alpha < beta < rc <
// final < post, then by stage number.
func (v Version) Compare(o Version) int {
	for _, pair := range [][2]uint{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Patch, o.Patch},
		{uint(v.Stage.ordinal()), uint(o.Stage.ordinal())},
		{v.Number, o.Number},
	} {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}
	return 0
}

// ordinal ranks stages for comparison purposes. This is distinct from
// the progression ranks in bump.go: here final releases sort between
// rc and post.
func (s Stage) ordinal() int {
	switch s {
	case StageDev:
		return 0
	case StageAlpha:
		return 1
	case StageBeta:
		return 2
	case StageRC:
		return 3
	case StagePost:
		return 5
	}
	return 4
}

// MarshalText renders the canonical form
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses the canonical form
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML renders the canonical form
func (v Version) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// UnmarshalYAML parses the canonical form
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	return v.UnmarshalText([]byte(text))
}
