package version

import (
	"github.com/relstage/relstage/pkg/version/status"
)

// Kind is one of the supported bump operations.
type Kind uint8

const (
	// KindDev iterates on a development pre-release
	KindDev Kind = iota

	// KindAlpha iterates on an alpha pre-release
	KindAlpha

	// KindBeta iterates on a beta pre-release
	KindBeta

	// KindRC iterates on a release candidate
	KindRC

	// KindPatch increments the patch component, or finalizes a pending pre-release
	KindPatch

	// KindMinor increments the minor component
	KindMinor

	// KindMajor increments the major component
	KindMajor

	// KindPost iterates on a post-release of a final version
	KindPost
)

// kindRank orders bump kinds for progression checks. Backward moves
// between pre-release kinds (e.g. beta back to alpha at the same
// triple) are rejected based on this table.
var kindRank = map[Kind]int{
	KindDev:   -1,
	KindAlpha: 0,
	KindBeta:  1,
	KindRC:    2,
	KindPatch: 3,
	KindMinor: 4,
	KindMajor: 5,
	KindPost:  10,
}

// stageRank mirrors kindRank for the stage a version currently sits at
var stageRank = map[Stage]int{
	StageDev:   -1,
	StageAlpha: 0,
	StageBeta:  1,
	StageRC:    2,
	StagePost:  10,
}

var kindNames = map[Kind]string{
	KindDev:   "dev",
	KindAlpha: "alpha",
	KindBeta:  "beta",
	KindRC:    "rc",
	KindPatch: "patch",
	KindMinor: "minor",
	KindMajor: "major",
	KindPost:  "post",
}

func (k Kind) String() string {
	return kindNames[k]
}

// IsPrerelease tells whether the kind produces a pre-release version
func (k Kind) IsPrerelease() bool {
	switch k {
	case KindDev, KindAlpha, KindBeta, KindRC:
		return true
	}
	return false
}

// IsRelease tells whether the kind produces a plain release
func (k Kind) IsRelease() bool {
	switch k {
	case KindPatch, KindMinor, KindMajor:
		return true
	}
	return false
}

// stage yields the stage a pre-release or post kind moves to
func (k Kind) stage() Stage {
	switch k {
	case KindDev:
		return StageDev
	case KindAlpha:
		return StageAlpha
	case KindBeta:
		return StageBeta
	case KindRC:
		return StageRC
	case KindPost:
		return StagePost
	}
	return StageNone
}

// ParseKind resolves a bump kind name as used on the command line
func ParseKind(text string) (Kind, error) {
	for k, name := range kindNames {
		if text == name {
			return k, nil
		}
	}
	return 0, status.ErrUnknownKind.WrapMessage("%q is not a bump kind", text)
}

// Resolve computes the version following current under the given bump
// kind.
//
// Release kinds always succeed: major and minor roll their component
// and reset the lower ones, while patch finalizes a pending
// pre-release in place, or increments the patch component otherwise.
// Alpha, beta and rc open a new series at patch+1 from a final
// version, iterate their own stage number, and upgrade a lower-ranked
// stage at the same triple. Dev iterates its own number or opens a
// fresh .dev1 at patch+1 regardless of the current stage. Post applies
// to final and post versions only.
//
// Moves that would walk the progression backwards fail with
// ErrInvalidProgression.
func Resolve(current Version, kind Kind) (Version, error) {
	switch kind {
	case KindMajor:
		return Version{Major: current.Major + 1}, nil

	case KindMinor:
		return Version{Major: current.Major, Minor: current.Minor + 1}, nil

	case KindPatch:
		if current.IsPrerelease() {
			return current.Base(), nil
		}
		next := current.Base()
		next.Patch++
		return next, nil

	case KindDev:
		if current.Stage == StageDev {
			next := current
			next.Number++
			return next, nil
		}
		next := current.Base()
		next.Patch++
		next.Stage = StageDev
		next.Number = 1
		return next, nil

	case KindAlpha, KindBeta, KindRC:
		target := kind.stage()
		switch {
		case current.Stage == StageNone:
			next := current.Base()
			next.Patch++
			next.Stage = target
			next.Number = 1
			return next, nil
		case current.Stage == target:
			next := current
			next.Number++
			return next, nil
		case stageRank[current.Stage] < kindRank[kind]:
			next := current.Base()
			next.Stage = target
			next.Number = 1
			return next, nil
		default:
			return Version{}, status.ErrInvalidProgression.WrapMessage(
				"cannot move from %s back to %s", current, kind)
		}

	case KindPost:
		switch current.Stage {
		case StageNone:
			next := current.Base()
			next.Stage = StagePost
			next.Number = 1
			return next, nil
		case StagePost:
			next := current
			next.Number++
			return next, nil
		default:
			return Version{}, status.ErrInvalidProgression.WrapMessage(
				"cannot post-release %s: not a final version", current)
		}

	default:
		return Version{}, status.ErrUnknownKind.WrapMessage("bump kind %d", kind)
	}
}
