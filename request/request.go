// Package request models the incoming JSON tabulation request (spec.md
// §4.2, §6): raw wire-shape structs validated and converted into typed
// values via two-stage UnmarshalJSON, then bound against loaded metadata.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"microtab/core"
)

// Request is the top-level JSON tabulation request (spec.md §6
// "Request JSON").
type Request struct {
	Product         string                    `json:"product"`
	DataRoot        *string                   `json:"data_root"`
	UOA             string                    `json:"uoa"`
	OutputFormat    string                    `json:"output_format"`
	Subpopulation   []RequestVariable         `json:"subpopulation"`
	CategoryBins    map[string][]CategoryBin  `json:"category_bins"`
	RequestSamples  []RequestSample           `json:"request_samples"`
	RequestVariables []RequestVariable        `json:"request_variables"`
}

// RequestVariable names a variable to tabulate or subpopulate on, plus its
// coarsening options (spec.md §4.2, §6).
type RequestVariable struct {
	VariableMnemonic          string                    `json:"variable_mnemonic"`
	Mnemonic                  string                    `json:"mnemonic"`
	GeneralDetailedSelection  GeneralDetailedSelection  `json:"general_detailed_selection"`
	CaseSelection             bool                      `json:"case_selection"`
	RequestCaseSelections     []RequestCaseSelection    `json:"request_case_selections"`
	ExtractStart              int                       `json:"extract_start"`
	ExtractWidth              int                       `json:"extract_width"`
}

// RequestSample names one sample to tabulate, with optional weight
// adjustments (spec.md §4.2). The adjustments are carried on
// BoundSample.Request; query generation and execution do not read them, so
// they do not change the weighted counts.
type RequestSample struct {
	Name                   string  `json:"name"`
	CustomSamplingRatio    *string `json:"custom_sampling_ratio"`
	FirstHouseholdSampled  *int    `json:"first_household_sampled"`
}

// GeneralDetailedSelection selects between a variable's coarser "general"
// code and its full "detailed" code (spec.md §4.2, GLOSSARY).
type GeneralDetailedSelection int

const (
	Detailed GeneralDetailedSelection = iota
	General
)

// UnmarshalJSON implements the null/missing/""-all-mean-Detailed,
// "G"-means-General rule (spec.md §4.2 "General/detailed flag"). A plain
// #[serde(default)] can't express this in the original because serde
// treats a present-but-null field differently from an absent one. Here an
// explicit null reaches UnmarshalJSON as the literal null and decodes to a
// nil *string, while an absent field never reaches UnmarshalJSON and keeps
// the zero value, Detailed; so null, absent and "" all end as Detailed.
func (g *GeneralDetailedSelection) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*g = Detailed
		return nil
	}
	if *s == "G" {
		*g = General
		return nil
	}
	return fmt.Errorf("request: general_detailed_selection must be \"G\", \"\", or null, got %q", *s)
}

// MarshalJSON renders General as "G" and Detailed as "".
func (g GeneralDetailedSelection) MarshalJSON() ([]byte, error) {
	if g == General {
		return json.Marshal("G")
	}
	return json.Marshal("")
}

// CategoryBin recodes a numeric source value into a small categorical
// output (spec.md §3, §4.2). Exactly one of the three shapes applies;
// LessThan/MoreThan store their single bound in High/Low respectively to
// keep the zero value meaningful.
type CategoryBin struct {
	Kind  CategoryBinKind
	Low   int64
	High  int64
	Code  uint64
	Label string
}

type CategoryBinKind int

const (
	BinLessThan CategoryBinKind = iota
	BinRange
	BinMoreThan
)

// Within reports whether testValue falls inside the bin's interval
// (original_source/src/input_schema_tabulation.rs::CategoryBin::within).
func (b CategoryBin) Within(testValue int64) bool {
	switch b.Kind {
	case BinLessThan:
		return testValue < b.High
	case BinMoreThan:
		return testValue > b.Low
	default:
		return testValue >= b.Low && testValue <= b.High
	}
}

type categoryBinRaw struct {
	Code       uint64 `json:"code"`
	ValueLabel string `json:"value_label"`
	Low        *int64 `json:"low"`
	High       *int64 `json:"high"`
}

// UnmarshalJSON validates and converts the raw {code, value_label, low?,
// high?} wire shape into one of the three CategoryBin kinds (spec.md §4.2
// "Bin validation"), mirroring
// original_source/src/input_schema_tabulation.rs's TryFrom<CategoryBinRaw>.
func (b *CategoryBin) UnmarshalJSON(data []byte) error {
	var raw categoryBinRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Low != nil && raw.High != nil:
		if *raw.High < *raw.Low {
			return core.NewError(core.InvalidRequest, "", "category_bins: a low of %d and high of %d do not satisfy low <= high", *raw.Low, *raw.High)
		}
		*b = CategoryBin{Kind: BinRange, Low: *raw.Low, High: *raw.High, Code: raw.Code, Label: raw.ValueLabel}
	case raw.Low == nil && raw.High != nil:
		*b = CategoryBin{Kind: BinLessThan, High: *raw.High, Code: raw.Code, Label: raw.ValueLabel}
	case raw.Low != nil && raw.High == nil:
		*b = CategoryBin{Kind: BinMoreThan, Low: *raw.Low, Code: raw.Code, Label: raw.ValueLabel}
	default:
		return core.NewError(core.InvalidRequest, "", "category_bins: must have low, high, or both set to some value")
	}
	return nil
}

// MarshalJSON renders a CategoryBin back to its raw wire shape.
func (b CategoryBin) MarshalJSON() ([]byte, error) {
	raw := categoryBinRaw{Code: b.Code, ValueLabel: b.Label}
	switch b.Kind {
	case BinLessThan:
		raw.High = &b.High
	case BinMoreThan:
		raw.Low = &b.Low
	case BinRange:
		raw.Low, raw.High = &b.Low, &b.High
	}
	return json.Marshal(raw)
}

// RequestCaseSelection is one numeric interval a request variable is
// filtered to (spec.md §3 "Case selection"). Query generation compiles the
// case selections of subpopulation variables only; those attached to
// tabulation variables are not applied.
type RequestCaseSelection struct {
	Kind CaseSelectionKind
	Low  uint64
	High uint64
}

type CaseSelectionKind int

const (
	CaseLessEqual CaseSelectionKind = iota
	CaseGreaterEqual
	CaseBetween
)

// NewRequestCaseSelection validates and builds a RequestCaseSelection from
// already-parsed bounds (original_source ...::RequestCaseSelection::try_new).
func NewRequestCaseSelection(lowCode, highCode *uint64) (RequestCaseSelection, error) {
	switch {
	case lowCode == nil && highCode == nil:
		return RequestCaseSelection{}, core.NewError(core.InvalidRequest, "", "request_case_selections: at most one of low_code and high_code may be null")
	case lowCode != nil && highCode == nil:
		return RequestCaseSelection{Kind: CaseGreaterEqual, Low: *lowCode}, nil
	case lowCode == nil && highCode != nil:
		return RequestCaseSelection{Kind: CaseLessEqual, High: *highCode}, nil
	case *lowCode <= *highCode:
		return RequestCaseSelection{Kind: CaseBetween, Low: *lowCode, High: *highCode}, nil
	default:
		return RequestCaseSelection{}, core.NewError(core.InvalidRequest, "", "request_case_selections: low_code must be <= high_code; got low_code=%d, high_code=%d", *lowCode, *highCode)
	}
}

type requestCaseSelectionRaw struct {
	LowCode  *string `json:"low_code"`
	HighCode *string `json:"high_code"`
}

// UnmarshalJSON parses the string-encoded low_code/high_code bounds to
// uint64 and validates them (spec.md §4.2 "Case-selection validation").
func (c *RequestCaseSelection) UnmarshalJSON(data []byte) error {
	var raw requestCaseSelectionRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	low, err := parseOptionalUint(raw.LowCode, "low_code")
	if err != nil {
		return err
	}
	high, err := parseOptionalUint(raw.HighCode, "high_code")
	if err != nil {
		return err
	}
	sel, err := NewRequestCaseSelection(low, high)
	if err != nil {
		return err
	}
	*c = sel
	return nil
}

func parseOptionalUint(s *string, field string) (*uint64, error) {
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseUint(*s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("request_case_selections: cannot parse %s as an unsigned integer: %w", field, err)
	}
	return &v, nil
}

// MarshalJSON renders a RequestCaseSelection back to its string-encoded
// wire shape.
func (c RequestCaseSelection) MarshalJSON() ([]byte, error) {
	raw := requestCaseSelectionRaw{}
	switch c.Kind {
	case CaseLessEqual:
		s := strconv.FormatUint(c.High, 10)
		raw.HighCode = &s
	case CaseGreaterEqual:
		s := strconv.FormatUint(c.Low, 10)
		raw.LowCode = &s
	case CaseBetween:
		lo, hi := strconv.FormatUint(c.Low, 10), strconv.FormatUint(c.High, 10)
		raw.LowCode, raw.HighCode = &lo, &hi
	}
	return json.Marshal(raw)
}

// ParseRequest decodes a JSON tabulation request. A validation failure
// raised by a field's own UnmarshalJSON (e.g. a bin's low > high) surfaces
// with its original InvalidRequest kind rather than being recast as a
// generic ParseError.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		var mdErr *core.MdError
		if errors.As(err, &mdErr) {
			return nil, mdErr
		}
		return nil, core.WrapError(core.ParseError, "", err, "decode request JSON")
	}
	return &req, nil
}
