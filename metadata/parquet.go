package metadata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"microtab/core"
)

// rawVariableMeta is the on-disk shape of one entry of a Parquet footer's
// "variables" key, as embedded by IPUMS-style extract pipelines (spec.md
// §4.1). Ported from original_source/src/parquet_metadata.rs's
// ParquetVariableMetadata.
type rawVariableMeta struct {
	Label        string            `json:"label"`
	Categories   map[string]string `json:"categories"`
	DataType     string            `json:"data_type"`
	ColumnStart  *int              `json:"column_start"`
	ColumnWidth  *int              `json:"column_width"`
	GeneralWidth *int              `json:"general_width"`
	RecordType   string            `json:"record_type"`
}

// rawSampleMeta is the on-disk shape of one entry of a Parquet footer's
// "samples" key.
type rawSampleMeta struct {
	Label           string   `json:"label"`
	Year            *int     `json:"year"`
	Month           *int     `json:"month"`
	Density         *float64 `json:"density"`
	SamplingDensity *float64 `json:"sampling_density"`
}

// FooterMetadata is the raw key/value strings extracted from a Parquet
// file's footer, before JSON decoding.
type FooterMetadata struct {
	Variables string
	Samples   string
	Version   string
}

// ExtractFooterMetadata opens the Parquet file at path and reads its
// "variables"/"samples"/"version" key-value metadata entries, without
// decoding any row data. Grounded on
// original_source/src/parquet_metadata.rs::extract_raw_metadata, adapted to
// the xitongsys/parquet-go reader's Footer.KeyValueMetaData shape.
func ExtractFooterMetadata(path string) (*FooterMetadata, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, core.WrapError(core.IoError, path, err, "open parquet file")
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return nil, core.WrapError(core.MetadataError, path, err, "read parquet footer")
	}
	defer pr.ReadStop()

	if pr.Footer == nil || len(pr.Footer.KeyValueMetadata) == 0 {
		return nil, core.NewError(core.MetadataError, path, "no key-value metadata found in parquet file")
	}

	out := &FooterMetadata{}
	for _, kv := range pr.Footer.KeyValueMetadata {
		if kv.Value == nil {
			continue
		}
		switch kv.Key {
		case "variables":
			out.Variables = *kv.Value
		case "samples":
			out.Samples = *kv.Value
		case "version":
			out.Version = *kv.Value
		}
	}
	if out.Variables == "" && out.Samples == "" {
		return nil, core.NewError(core.MetadataError, path, "no IPUMS metadata found in parquet file")
	}
	return out, nil
}

// ParseVariableMetadata decodes a footer's "variables" JSON object into
// Variable descriptors. A variable whose entry fails to decode is skipped
// with a warning rather than aborting the whole load (spec.md §4.1); the
// call only fails if every variable fails, or the JSON itself is invalid.
func ParseVariableMetadata(jsonStr string, defaultRecordType string, warn func(string)) ([]*core.Variable, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, core.WrapError(core.ParseError, "", err, "decode variables metadata JSON")
	}

	var out []*core.Variable
	var failed []string
	for name, entry := range raw {
		var meta rawVariableMeta
		var v *core.Variable
		err := json.Unmarshal(entry, &meta)
		if err == nil {
			v, err = convertVariable(name, meta, defaultRecordType)
		}
		if err != nil {
			failed = append(failed, name)
			if warn != nil {
				warn(fmt.Sprintf("skipping variable %s: %v", name, err))
			}
			continue
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil, core.NewError(core.MetadataError, "", "no valid variables could be parsed from metadata (%d failed)", len(failed))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func convertVariable(name string, meta rawVariableMeta, defaultRecordType string) (*core.Variable, error) {
	dt := core.ParseDataType(meta.DataType)
	recordType := meta.RecordType
	if recordType == "" {
		recordType = defaultRecordType
	}

	v := &core.Variable{
		Name:       strings.ToUpper(name),
		Label:      meta.Label,
		DataType:   dt,
		RecordType: recordType,
	}
	if meta.ColumnStart != nil && meta.ColumnWidth != nil {
		v.Formatting = &core.Width{Start: *meta.ColumnStart, Width: *meta.ColumnWidth}
	}
	if meta.GeneralWidth != nil {
		v.GeneralWidth = *meta.GeneralWidth
	} else if meta.ColumnWidth != nil {
		v.GeneralWidth = *meta.ColumnWidth
	}

	if len(meta.Categories) > 0 {
		v.Categories = convertCategories(meta.Categories, dt)
	}
	return v, nil
}

func convertCategories(raw map[string]string, dt core.DataType) []core.Category {
	out := make([]core.Category, 0, len(raw))
	for code, label := range raw {
		var val core.Value
		switch dt {
		case core.DataTypeInteger, core.DataTypeFixed:
			if n, err := strconv.ParseInt(code, 10, 64); err == nil {
				val = core.IntegerValue(n)
			} else {
				val = core.StringValue([]byte(code), true)
			}
		case core.DataTypeFloat:
			val = core.FloatValue(code)
		default:
			val = core.StringValue([]byte(code), true)
		}
		out = append(out, core.Category{
			Value:    val,
			Label:    label,
			Semantic: core.InferSemantic(code, label),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value.Type == core.DataTypeInteger && out[j].Value.Type == core.DataTypeInteger {
			return out[i].Value.Integer < out[j].Value.Integer
		}
		return out[i].Value.Text() < out[j].Value.Text()
	})
	return out
}

// ParseSampleMetadata decodes a footer's "samples" JSON object into
// Dataset descriptors.
func ParseSampleMetadata(jsonStr string) ([]*core.Dataset, error) {
	var raw map[string]rawSampleMeta
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, core.WrapError(core.ParseError, "", err, "decode samples metadata JSON")
	}

	var out []*core.Dataset
	for name, meta := range raw {
		density := meta.Density
		if density == nil {
			density = meta.SamplingDensity
		}
		out = append(out, &core.Dataset{
			Name:            name,
			Year:            meta.Year,
			Month:           meta.Month,
			SamplingDensity: density,
			Label:           meta.Label,
			Variables:       map[string]bool{},
		})
	}
	if len(out) == 0 {
		return nil, core.NewError(core.MetadataError, "", "no valid datasets could be parsed from metadata")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
