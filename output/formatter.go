// Package output renders materialized tabulation tables in the formats
// spec.md §6 names for the CLI's -f flag: text, json, and csv.
package output

import (
	"fmt"
	"strings"

	"microtab/core"
	"microtab/exec"
)

// Format is an enum of the supported renderings.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formatter renders a *exec.Table as text.
type Formatter interface {
	Format(tables []*exec.Table) (string, error)
}

// NewFormatter builds a Formatter for name. An empty name defaults to text,
// matching the teacher's NewFormatter default-to-SQL behavior. "html" is a
// named but unimplemented format (spec.md §6 Non-goals list an HTML
// renderer as out of scope for this pass); requesting it fails explicitly
// rather than silently falling back.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatText:
		return textFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatCSV:
		return csvFormatter{}, nil
	case "html":
		return nil, core.NewError(core.InvalidRequest, name, "output format %q is not implemented; use 'text', 'json', or 'csv'", name)
	default:
		return nil, fmt.Errorf("unsupported output format: %s; use 'text', 'json', or 'csv'", name)
	}
}
