package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// textWriter renders a value as plain text.
type textWriter interface {
	writeText(w io.Writer) error
}

// render writes report to w in the requested format.
func render(w io.Writer, format string, report textWriter) error {
	switch format {
	case formatText, "":
		return report.writeText(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown --format %q: want text, json or yaml", format)
	}
}
