package request

import (
	"microtab/core"
)

// BoundVariable is a RequestVariable resolved against a loaded Collection:
// its descriptor, general/detailed widths, and data type are attached
// (spec.md §4.2 "Binding").
type BoundVariable struct {
	Request  RequestVariable
	Variable *core.Variable
	Bins     []CategoryBin
}

// BoundRequest is a Request whose variables and samples have all resolved
// against a Collection's metadata (spec.md §4.2 "Binding").
type BoundRequest struct {
	Product       string
	DataRoot      string
	UOA           *core.RecordType
	OutputFormat  string
	Subpopulation []BoundVariable
	TabVariables  []BoundVariable
	Samples       []BoundSample
}

// BoundSample is a RequestSample resolved against a Collection's datasets.
type BoundSample struct {
	Request RequestSample
	Dataset *core.Dataset
}

// Bind resolves req against coll: every named variable and sample must
// exist, and the UOA must be a known record type, or binding fails with
// UnknownEntity (spec.md §4.2 "Binding").
func Bind(req *Request, coll *core.Collection, defaultDataRoot string) (*BoundRequest, error) {
	dataRoot := defaultDataRoot
	if req.DataRoot != nil && *req.DataRoot != "" {
		dataRoot = *req.DataRoot
	}

	bound := &BoundRequest{
		Product:      req.Product,
		DataRoot:     dataRoot,
		OutputFormat: req.OutputFormat,
	}

	var err error
	if bound.TabVariables, err = bindVariables(req.RequestVariables, req.CategoryBins, coll); err != nil {
		return nil, err
	}
	if bound.Subpopulation, err = bindVariables(req.Subpopulation, req.CategoryBins, coll); err != nil {
		return nil, err
	}
	if bound.Samples, err = bindSamples(req.RequestSamples, coll); err != nil {
		return nil, err
	}

	// uoa is conventionally required, but SimpleRequest (the CLI "tab"
	// path) leaves it unset and means "count at the first tabulation
	// variable's own record type".
	uoaCode := req.UOA
	if uoaCode == "" && len(bound.TabVariables) > 0 {
		uoaCode = bound.TabVariables[0].Variable.RecordType
	}
	uoa, ok := coll.LookupRecordType(uoaCode)
	if !ok {
		return nil, core.NewError(core.UnknownEntity, uoaCode, "unit of analysis is not a known record type in product %q", req.Product)
	}
	bound.UOA = uoa

	return bound, nil
}

func bindVariables(vars []RequestVariable, bins map[string][]CategoryBin, coll *core.Collection) ([]BoundVariable, error) {
	out := make([]BoundVariable, 0, len(vars))
	for _, rv := range vars {
		name := rv.VariableMnemonic
		if name == "" {
			name = rv.Mnemonic
		}
		v, ok := coll.LookupVariable(name)
		if !ok {
			return nil, core.NewError(core.UnknownEntity, name, "request variable not found in loaded metadata")
		}
		out = append(out, BoundVariable{
			Request:  rv,
			Variable: v,
			Bins:     bins[name],
		})
	}
	return out, nil
}

func bindSamples(samples []RequestSample, coll *core.Collection) ([]BoundSample, error) {
	out := make([]BoundSample, 0, len(samples))
	for _, rs := range samples {
		ds, ok := coll.LookupSample(rs.Name)
		if !ok {
			return nil, core.NewError(core.UnknownEntity, rs.Name, "request sample not found in loaded metadata")
		}
		out = append(out, BoundSample{Request: rs, Dataset: ds})
	}
	return out, nil
}

// SimpleRequest builds a minimal Request for the CLI `tab` subcommand: one
// sample, a list of tabulation variable names with no bins or subpopulation,
// and the first request variable's record type as the unit of analysis
// (original_source/src/request.rs::SimpleRequest, spec.md §6 "tab" CLI).
func SimpleRequest(product, dataRoot, sample string, variableNames []string, outputFormat string) *Request {
	vars := make([]RequestVariable, 0, len(variableNames))
	for _, name := range variableNames {
		vars = append(vars, RequestVariable{VariableMnemonic: name, Mnemonic: name})
	}

	var dataRootPtr *string
	if dataRoot != "" {
		dataRootPtr = &dataRoot
	}

	return &Request{
		Product:          product,
		DataRoot:         dataRootPtr,
		OutputFormat:     outputFormat,
		CategoryBins:     map[string][]CategoryBin{},
		RequestSamples:   []RequestSample{{Name: sample}},
		RequestVariables: vars,
	}
}
