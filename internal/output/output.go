package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/docklike/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes.
var Stdout io.Writer = os.Stdout

// ListResult is the top-level output of the `list` command.
type ListResult struct {
	Backend string                 `yaml:"backend,omitempty" json:"backend,omitempty"`
	TS      int64                  `yaml:"ts"                json:"ts"`
	Groups  []model.GroupSnapshot  `yaml:"groups"            json:"groups"`
	Windows []model.WindowSnapshot `yaml:"windows,omitempty" json:"windows,omitempty"`
}

// ChangeSet is one batch of changes printed by `run` and `replay`.
type ChangeSet struct {
	TS      int64              `yaml:"ts"             json:"ts"`
	Step    string             `yaml:"step,omitempty" json:"step,omitempty"`
	Changes []model.DockChange `yaml:"changes"        json:"changes"`
}

// Print serializes v to Stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(v, PrettyOutput)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	case "":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
}
