package core

import "strings"

// CategorySemantic classifies what a category code means, beyond its plain
// value, per spec.md §3.
type CategorySemantic string

const (
	SemanticValue          CategorySemantic = "Value"
	SemanticNotInUniverse  CategorySemantic = "NotInUniverse"
	SemanticMissing        CategorySemantic = "Missing"
	SemanticNotApplicable  CategorySemantic = "NotApplicable"
	SemanticTopCode        CategorySemantic = "TopCode"
	SemanticBottomCode     CategorySemantic = "BottomCode"
)

// Category is one (code, label, semantic kind) entry of a Variable's
// category list (spec.md §3).
type Category struct {
	Value    Value
	Label    string
	Semantic CategorySemantic
}

// missingCodes are the legacy numeric missing-value sentinels recognized
// independent of label text (spec.md §4.1).
var missingCodes = map[string]bool{
	"998": true, "999": true, "9998": true, "9999": true, "99999": true,
}

// InferSemantic applies the label/code heuristics from spec.md §4.1 when the
// source does not annotate a category's semantic kind directly. Ported from
// original_source/src/parquet_metadata.rs::determine_category_meaning.
func InferSemantic(code string, label string) CategorySemantic {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "n/a"), strings.Contains(lower, "not applicable"):
		return SemanticNotApplicable
	case strings.Contains(lower, "missing"), strings.Contains(lower, "unknown"),
		strings.Contains(lower, "illegible"), missingCodes[code]:
		return SemanticMissing
	case strings.Contains(lower, "not in universe"), strings.Contains(lower, "niu"):
		return SemanticNotInUniverse
	case strings.Contains(lower, "topcode"), strings.Contains(lower, "top code"):
		return SemanticTopCode
	case strings.Contains(lower, "bottomcode"), strings.Contains(lower, "bottom code"):
		return SemanticBottomCode
	default:
		return SemanticValue
	}
}
