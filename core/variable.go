package core

// Width is the byte/digit range a fixed-width variable occupies within its
// record (spec.md §3).
type Width struct {
	Start int
	Width int
}

// Variable is a descriptor for one tabulatable field: its data type, display
// label, owning record type, optional categories, and general/detailed
// widths (spec.md §3).
type Variable struct {
	Name       string
	Label      string
	DataType   DataType
	RecordType string
	Categories []Category

	// Formatting is the (start, width) of the detailed value within its
	// fixed-width record, when the source is fixed-width or when a Parquet
	// footer reported column_start/column_width.
	Formatting *Width

	// GeneralWidth is the width of the coarser "general" code, when the
	// variable supports general/detailed selection (spec.md §3, GLOSSARY).
	// Zero means the variable has no general form.
	GeneralWidth int
}

// DetailedWidth returns the width of the variable's detailed representation,
// or 0 if unknown.
func (v *Variable) DetailedWidth() int {
	if v.Formatting == nil {
		return 0
	}
	return v.Formatting.Width
}

// HasGeneral reports whether this variable supports a general/detailed
// split (GLOSSARY: "General / detailed").
func (v *Variable) HasGeneral() bool {
	return v.GeneralWidth > 0 && v.GeneralWidth < v.DetailedWidth()
}

// CategoryFor returns the Category entry matching value's text, if any.
func (v *Variable) CategoryFor(value string) (Category, bool) {
	for _, c := range v.Categories {
		if c.Value.Text() == value {
			return c, true
		}
	}
	return Category{}, false
}

// Dataset is a sample: a single microdata file set for one year/wave
// (spec.md §3, GLOSSARY).
type Dataset struct {
	Name            string
	Year            *int
	Month           *int
	SamplingDensity *float64
	Label           string
	// Variables is the set of variable names this dataset owns, by
	// reference into the owning Collection's variable table.
	Variables map[string]bool
}

// OwnsVariable reports whether this dataset declares the named variable.
func (d *Dataset) OwnsVariable(name string) bool {
	if d.Variables == nil {
		return false
	}
	return d.Variables[name]
}
