package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Formatter renders a command result on an output stream.
type Formatter interface {
	Format(w io.Writer, data interface{}) error
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(w io.Writer, data interface{}) error

// Format renders data on w
func (fn FormatterFunc) Format(w io.Writer, data interface{}) error {
	return fn(w, data)
}

// formatters knows about the built in output formats.
// Commands register their extra formats with addFormatFlag.
var formatters = map[string]Formatter{
	"json": FormatterFunc(func(w io.Writer, data interface{}) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}),
	"yaml": FormatterFunc(func(w io.Writer, data interface{}) error {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	}),
}

// addFormatFlag equips a command with the --format flag and registers the
// extra renderings this command knows about.
func addFormatFlag(cmd *cobra.Command, defaultFormat string, extra ...map[string]Formatter) error {
	for _, m := range extra {
		for name, formatter := range m {
			formatters[name] = formatter
		}
	}
	if _, ok := formatters[defaultFormat]; !ok {
		return fmt.Errorf("unknown default output format: %q", defaultFormat)
	}
	cmd.Flags().StringVar(&relstageFlags.root.format, "format", defaultFormat,
		"The output format for the result (e.g. json, yaml)")
	return nil
}

// print renders data on the command output, honoring the --format flag
func print(data interface{}) error {
	formatter, ok := formatters[relstageFlags.root.format]
	if !ok {
		return fmt.Errorf("unsupported output format: %q", relstageFlags.root.format)
	}
	return formatter.Format(outputWriter, data)
}
