package manifest

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/relstage/relstage/pkg/manifest/status"
	"github.com/relstage/relstage/pkg/version"
)

var (
	sectionRe     = regexp.MustCompile(`^\s*\[([^\]]+)\]`)
	tomlVersionRe = regexp.MustCompile(`^(\s*version\s*=\s*)(["'])([^"']*)(["'])(.*)$`)
	iniVersionRe  = regexp.MustCompile(`^(\s*version\s*[:=][ \t]*)(.*?)([ \t]*)$`)
	yamlVersionRe = regexp.MustCompile(`^(version\s*:[ \t]*)(["']?)([^"'#]*?)(["']?)([ \t]*(?:#.*)?)$`)
)

// Rewrite splices next into the declaration file, leaving formatting,
// comments and every unrelated line untouched. The file is then read
// back and parsed again to verify the declared version matches.
func (f *File) Rewrite(next version.Version) error {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return status.ErrAccess.Wrap(err)
	}
	updated, err := f.splice(string(data), next)
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, err := f.fs.Stat(f.path); err == nil {
		mode = info.Mode()
	}
	if err = afero.WriteFile(f.fs, f.path, []byte(updated), mode); err != nil {
		return status.ErrAccess.Wrap(err)
	}

	written, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return status.ErrAccess.Wrap(err)
	}
	declared, err := readVersion(f.format, written)
	if err != nil {
		return status.ErrRoundTrip.Wrap(err)
	}
	if declared != next.String() {
		return status.ErrRoundTrip.WrapMessage("%s declares %q, wanted %q", f.path, declared, next)
	}
	f.current = next
	return nil
}

// splice locates the single version line for the format and replaces
// its value, preserving indentation, delimiters, quoting style,
// trailing comments and line endings.
func (f *File) splice(doc string, next version.Version) (string, error) {
	lines := strings.Split(doc, "\n")
	replaced := false

	switch f.format {
	case FormatPyProject:
		table := ""
		for i, line := range lines {
			body := strings.TrimSuffix(line, "\r")
			if m := sectionRe.FindStringSubmatch(body); m != nil {
				table = m[1]
				continue
			}
			if table != "project" || replaced {
				continue
			}
			if m := tomlVersionRe.FindStringSubmatch(body); m != nil {
				lines[i] = restoreCR(line, m[1]+m[2]+next.String()+m[4]+m[5])
				replaced = true
			}
		}

	case FormatSetupCfg:
		section := ""
		for i, line := range lines {
			body := strings.TrimSuffix(line, "\r")
			if m := sectionRe.FindStringSubmatch(body); m != nil {
				section = m[1]
				continue
			}
			if section != "metadata" || replaced {
				continue
			}
			if m := iniVersionRe.FindStringSubmatch(body); m != nil {
				lines[i] = restoreCR(line, m[1]+next.String()+m[3])
				replaced = true
			}
		}

	case FormatGalaxy:
		for i, line := range lines {
			if replaced {
				break
			}
			body := strings.TrimSuffix(line, "\r")
			if m := yamlVersionRe.FindStringSubmatch(body); m != nil {
				lines[i] = restoreCR(line, m[1]+m[2]+next.String()+m[4]+m[5])
				replaced = true
			}
		}

	default:
		return "", status.ErrUnsupported.WrapMessage("format %v", f.format)
	}

	if !replaced {
		return "", status.ErrNoVersionField.WrapMessage("cannot locate the version line in %s", f.path)
	}
	return strings.Join(lines, "\n"), nil
}

func restoreCR(orig, body string) string {
	if strings.HasSuffix(orig, "\r") {
		return body + "\r"
	}
	return body
}
