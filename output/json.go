package output

import (
	"encoding/json"

	"microtab/exec"
)

type jsonFormatter struct{}

type tablePayload struct {
	Sample  string           `json:"sample,omitempty"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Format renders each table as an array-of-objects payload, one object per
// output row keyed by column name, matching the teacher's
// marshal-to-indented-JSON convention (internal/output/json.go).
func (jsonFormatter) Format(tables []*exec.Table) (string, error) {
	payloads := make([]tablePayload, 0, len(tables))
	for _, table := range tables {
		payload := tablePayload{Sample: table.Sample, Columns: headerCells(table), Rows: make([]map[string]any, 0, table.Count())}
		for _, row := range table.Rows {
			obj := make(map[string]any, len(table.Columns))
			for i, col := range table.Columns {
				obj[col.Name] = row[i].Text()
			}
			payload.Rows = append(payload.Rows, obj)
		}
		payloads = append(payloads, payload)
	}

	b, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
