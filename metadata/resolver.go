package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"microtab/core"
)

// Resolver implements querygen.FileResolver by applying spec.md §4.1's
// resolution rules in reverse: given a record type and sample, find the
// on-disk glob path(s) holding that record type's rows.
type Resolver struct {
	DataRoot string
	Product  string
}

// NewResolver builds a Resolver rooted at dataRoot for product.
func NewResolver(dataRoot, product string) *Resolver {
	return &Resolver{DataRoot: dataRoot, Product: product}
}

// Resolve implements querygen.FileResolver.
func (r *Resolver) Resolve(sample string, rt *core.RecordType) ([]string, error) {
	parquetGlob := filepath.Join(r.DataRoot, "parquet", sample, fmt.Sprintf("*%s.parquet", rt.Code))
	if matches, err := filepath.Glob(parquetGlob); err == nil && len(matches) > 0 {
		return matches, nil
	}

	fixedWidthPath := filepath.Join(r.DataRoot, fmt.Sprintf("%s_%s.dat.gz", sample, r.Product))
	if _, err := os.Stat(fixedWidthPath); err == nil {
		return []string{fixedWidthPath}, nil
	}

	return nil, core.NewError(core.MetadataError, rt.Code, "no data files found for sample %q, record type %q", sample, rt.Code)
}
