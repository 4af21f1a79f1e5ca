// Package manifest locates, reads and rewrites the file a project
// declares its version in.
//
// Three declaration flavors are supported: pyproject.toml (version
// under the [project] table), setup.cfg (version under the [metadata]
// section) and galaxy.yml (top level version scalar). Rewrites splice
// the new version into the original document, leaving every other
// byte alone, then re-parse the result with the format's parser to
// verify the change landed.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/relstage/relstage/pkg/manifest/status"
	"github.com/relstage/relstage/pkg/version"
)

// Format identifies the declaration file flavor.
type Format uint8

const (
	// FormatPyProject is a TOML document with version under [project]
	FormatPyProject Format = iota

	// FormatSetupCfg is an INI document with version under [metadata]
	FormatSetupCfg

	// FormatGalaxy is a YAML document with a top level version scalar
	FormatGalaxy
)

func (f Format) String() string {
	switch f {
	case FormatPyProject:
		return "pyproject"
	case FormatSetupCfg:
		return "setup.cfg"
	case FormatGalaxy:
		return "galaxy"
	}
	return "unknown"
}

// candidates are probed in order by Detect
var candidates = []string{"pyproject.toml", "setup.cfg", "galaxy.yml"}

// File is a loaded version declaration document.
type File struct {
	path    string
	format  Format
	fs      afero.Fs
	current version.Version
}

// Path of the declaration file, as given to Load
func (f *File) Path() string {
	return f.path
}

// Format of the declaration file
func (f *File) Format() Format {
	return f.format
}

// Version currently declared by the file
func (f *File) Version() version.Version {
	return f.current
}

// Detect probes dir for a known declaration file and loads the first
// one found.
func Detect(fs afero.Fs, dir string) (*File, error) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return nil, status.ErrAccess.Wrap(err)
		}
		if ok {
			return Load(fs, path)
		}
	}
	return nil, status.ErrNotFound.WrapMessage("no declaration file in %s (tried %s)",
		dir, strings.Join(candidates, ", "))
}

// Load reads the declaration file at path, with the format inferred
// from the file name.
func Load(fs afero.Fs, path string) (*File, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, status.ErrAccess.Wrap(err)
	}
	declared, err := readVersion(format, data)
	if err != nil {
		return nil, err
	}
	current, err := version.Parse(declared)
	if err != nil {
		return nil, err
	}
	return &File{path: path, format: format, fs: fs, current: current}, nil
}

func formatFor(path string) (Format, error) {
	base := filepath.Base(path)
	switch base {
	case "pyproject.toml":
		return FormatPyProject, nil
	case "setup.cfg":
		return FormatSetupCfg, nil
	case "galaxy.yml", "galaxy.yaml":
		return FormatGalaxy, nil
	}
	switch filepath.Ext(base) {
	case ".toml":
		return FormatPyProject, nil
	case ".cfg", ".ini":
		return FormatSetupCfg, nil
	case ".yml", ".yaml":
		return FormatGalaxy, nil
	}
	return 0, status.ErrUnsupported.WrapMessage("%s", path)
}

// readVersion extracts the declared version string using the real
// parser for the format, not by scanning lines.
func readVersion(format Format, data []byte) (string, error) {
	switch format {
	case FormatPyProject:
		var doc struct {
			Project struct {
				Version string `toml:"version"`
			} `toml:"project"`
		}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return "", status.ErrAccess.Wrap(err)
		}
		if doc.Project.Version == "" {
			return "", status.ErrNoVersionField.WrapMessage("missing [project] version")
		}
		return doc.Project.Version, nil

	case FormatSetupCfg:
		doc, err := ini.Load(data)
		if err != nil {
			return "", status.ErrAccess.Wrap(err)
		}
		section := doc.Section("metadata")
		if !section.HasKey("version") {
			return "", status.ErrNoVersionField.WrapMessage("missing [metadata] version")
		}
		return strings.TrimSpace(section.Key("version").String()), nil

	case FormatGalaxy:
		var doc struct {
			Version string `yaml:"version"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return "", status.ErrAccess.Wrap(err)
		}
		if doc.Version == "" {
			return "", status.ErrNoVersionField.WrapMessage("missing version scalar")
		}
		return doc.Version, nil
	}
	return "", status.ErrUnsupported.WrapMessage("format %v", format)
}
