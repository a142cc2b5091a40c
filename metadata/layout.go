// Package metadata loads IPUMS-style conventions and variable/sample
// descriptors from the two supported source formats: Parquet footer
// key/value metadata, and fixed-width layout files paired with a
// .dat.gz data file (spec.md §4.1, §6).
package metadata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"microtab/core"
)

// LayoutVar is a single parsed line of a layout file: one record/column
// descriptor (spec.md §6 "NAME RECTYPE START WIDTH DATA_TYPE").
type LayoutVar struct {
	Name     string
	RecType  string
	Start    int
	Width    int
	DataType core.DataType
}

// RecordLayout holds the ordered variable descriptors for a single record
// type within a layout file.
type RecordLayout struct {
	Vars []LayoutVar
}

// SortedByStart returns the layout's variables ordered by their byte
// offset within the record, for fixed-width field extraction.
func (l *RecordLayout) SortedByStart() []LayoutVar {
	out := append([]LayoutVar{}, l.Vars...)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// DatasetLayout groups a layout file's variables by record type.
type DatasetLayout struct {
	byRecType map[string]*RecordLayout
}

// RecordTypes returns every record type named in the layout.
func (d *DatasetLayout) RecordTypes() []string {
	out := make([]string, 0, len(d.byRecType))
	for rt := range d.byRecType {
		out = append(out, rt)
	}
	sort.Strings(out)
	return out
}

// ForRecordType returns the layout for rt, or nil if rt is absent.
func (d *DatasetLayout) ForRecordType(rt string) *RecordLayout {
	return d.byRecType[rt]
}

// AllVariables returns every variable across every record type, in
// record-type then declaration order.
func (d *DatasetLayout) AllVariables() []LayoutVar {
	var out []LayoutVar
	for _, rt := range d.RecordTypes() {
		out = append(out, d.byRecType[rt].Vars...)
	}
	return out
}

// ParseLayoutFile reads a whitespace-delimited layout file: one
// "NAME RECTYPE START WIDTH DATA_TYPE" record per line, blank lines and
// lines beginning with '#' ignored (spec.md §6). Variables are assigned to
// record types in alphabetical-by-name order within each record type, to
// give a layout file a stable schema order independent of its line order
// (mirrors original_source/src/layout.rs's alphabetical default).
func ParseLayoutFile(path string) (*DatasetLayout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.IoError, path, err, "open layout file")
	}
	defer f.Close()

	return ParseLayout(f, path)
}

// ParseLayout parses layout file content from r. name identifies the
// source for error messages.
func ParseLayout(r io.Reader, name string) (*DatasetLayout, error) {
	var vars []LayoutVar
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, core.NewError(core.ParseError, name,
				"line %d: expected 5 fields (NAME RECTYPE START WIDTH DATA_TYPE), got %d", lineNo, len(fields))
		}
		start, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, core.WrapError(core.ParseError, name, err, "line %d: invalid START %q", lineNo, fields[2])
		}
		width, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, core.WrapError(core.ParseError, name, err, "line %d: invalid WIDTH %q", lineNo, fields[3])
		}
		vars = append(vars, LayoutVar{
			Name:     strings.ToUpper(fields[0]),
			RecType:  fields[1],
			Start:    start,
			Width:    width,
			DataType: core.ParseDataType(fields[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.WrapError(core.IoError, name, err, "read layout file")
	}
	if len(vars) == 0 {
		return nil, core.NewError(core.MetadataError, name, "layout file declares no variables")
	}

	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })

	byRecType := map[string]*RecordLayout{}
	for _, v := range vars {
		rl, ok := byRecType[v.RecType]
		if !ok {
			rl = &RecordLayout{}
			byRecType[v.RecType] = rl
		}
		rl.Vars = append(rl.Vars, v)
	}
	return &DatasetLayout{byRecType: byRecType}, nil
}

// FormatParseError is returned by callers that need a consistent message
// for a layout value that could not be read for a record, e.g. when
// extracting a field from a fixed-width line shorter than the layout
// declares.
func FormatParseError(varName string, lineLen int, want LayoutVar) error {
	return fmt.Errorf("metadata: record too short to hold %s: need offset %d..%d, have %d bytes",
		varName, want.Start, want.Start+want.Width, lineLen)
}
