package version

import (
	"strconv"
	"strings"

	"github.com/relstage/relstage/pkg/version/status"
)

// Parse builds a Version from its canonical string form.
//
// Suffix detection looks for ".postN" first, then ".devN", then an
// inline "aN", "bN" or "rcN" marker. Whatever remains must be a plain
// MAJOR.MINOR.PATCH triple of base 10 naturals. Stage numbers must be
// strictly positive. Any other input fails with ErrInvalidVersion.
func Parse(text string) (Version, error) {
	if text == "" {
		return Version{}, status.ErrInvalidVersion.WrapMessage("empty version string")
	}

	base := text
	stage := StageNone
	var number uint

	if i := strings.Index(text, ".post"); i >= 0 {
		stage = StagePost
		base = text[:i]
		n, err := parseStageNumber(text, text[i+len(".post"):])
		if err != nil {
			return Version{}, err
		}
		number = n
	} else if i := strings.Index(text, ".dev"); i >= 0 {
		stage = StageDev
		base = text[:i]
		n, err := parseStageNumber(text, text[i+len(".dev"):])
		if err != nil {
			return Version{}, err
		}
		number = n
	} else if i := strings.IndexFunc(text, isStageMarker); i >= 0 {
		var marker string
		switch {
		case strings.HasPrefix(text[i:], "rc"):
			stage, marker = StageRC, "rc"
		case strings.HasPrefix(text[i:], "a"):
			stage, marker = StageAlpha, "a"
		case strings.HasPrefix(text[i:], "b"):
			stage, marker = StageBeta, "b"
		default:
			return Version{}, status.ErrInvalidVersion.WrapMessage("%q: unsupported stage marker %q", text, text[i:])
		}
		base = text[:i]
		n, err := parseStageNumber(text, text[i+len(marker):])
		if err != nil {
			return Version{}, err
		}
		number = n
	}

	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return Version{}, status.ErrInvalidVersion.WrapMessage("%q: need a MAJOR.MINOR.PATCH triple, got %q", text, base)
	}
	triple := make([]uint, 3)
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Version{}, status.ErrInvalidVersion.WrapMessage("%q: component %q is not a natural number", text, part)
		}
		triple[i] = uint(n)
	}

	return Version{
		Major:  triple[0],
		Minor:  triple[1],
		Patch:  triple[2],
		Stage:  stage,
		Number: number,
	}, nil
}

// MustParse is Parse for trusted inputs, panicking on error
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func isStageMarker(r rune) bool {
	return (r < '0' || r > '9') && r != '.'
}

func parseStageNumber(text, digits string) (uint, error) {
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, status.ErrInvalidVersion.WrapMessage("%q: stage number %q is not a natural number", text, digits)
	}
	if n == 0 {
		return 0, status.ErrInvalidVersion.WrapMessage("%q: stage number must be strictly positive", text)
	}
	return uint(n), nil
}
