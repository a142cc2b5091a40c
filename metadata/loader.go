package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"microtab/core"
)

// Loader resolves a product's conventions and loads per-sample variable and
// dataset descriptors from whichever of the two storage formats is present
// under a data root (spec.md §4.1 Resolution rules).
type Loader struct {
	DataRoot string
	Product  string
	warn     func(string)
}

// NewLoader builds a Loader rooted at dataRoot for the named product.
func NewLoader(dataRoot, product string) *Loader {
	return &Loader{DataRoot: dataRoot, Product: product, warn: func(string) {}}
}

// OnWarning installs a callback invoked for every non-fatal diagnostic
// produced while loading (e.g. a variable whose metadata failed to parse).
func (l *Loader) OnWarning(fn func(string)) { l.warn = fn }

// LoadSample implements spec.md §4.1's load_sample(product, sample):
// resolves conventions for the product, then loads variable/dataset
// descriptors for sample from whichever format is present, merging them
// into the returned Collection.
func (l *Loader) LoadSample(sample string) (*core.Collection, error) {
	coll, ok := DefaultConventions(l.Product)
	if !ok {
		conventionsPath := filepath.Join(l.DataRoot, l.Product, "conventions.toml")
		loaded, err := LoadConventionsFile(conventionsPath)
		if err != nil {
			return nil, core.WrapError(core.MetadataError, l.Product, err, "resolve product conventions")
		}
		coll = loaded
	}

	parquetDir := filepath.Join(l.DataRoot, "parquet", sample)
	if info, err := os.Stat(parquetDir); err == nil && info.IsDir() {
		if err := l.loadParquetSample(coll, sample, parquetDir); err != nil {
			return nil, err
		}
		return coll, nil
	}

	fixedWidthPath := filepath.Join(l.DataRoot, fmt.Sprintf("%s_%s.dat.gz", sample, l.Product))
	if _, err := os.Stat(fixedWidthPath); err == nil {
		if err := l.loadFixedWidthSample(coll, sample, fixedWidthPath); err != nil {
			return nil, err
		}
		return coll, nil
	}

	return nil, core.NewError(core.MetadataError, sample,
		"sample not found under data root %q: expected parquet/%s/ or %s_%s.dat.gz", l.DataRoot, sample, sample, l.Product)
}

func (l *Loader) loadParquetSample(coll *core.Collection, sample, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if err != nil || len(files) == 0 {
		return core.NewError(core.MetadataError, sample, "no parquet files found in %s", dir)
	}
	sort.Strings(files)

	ds := &core.Dataset{Name: sample, Variables: map[string]bool{}}
	loadedAny := false

	for _, f := range files {
		recordType := recordTypeFromFilename(f)
		footer, err := ExtractFooterMetadata(f)
		if err != nil {
			l.warn(fmt.Sprintf("skipping %s: %v", f, err))
			continue
		}
		if footer.Variables != "" {
			vars, err := ParseVariableMetadata(footer.Variables, recordType, l.warn)
			if err != nil {
				l.warn(fmt.Sprintf("%s: %v", f, err))
			} else {
				for _, v := range vars {
					coll.AddVariable(v)
					ds.Variables[v.Name] = true
				}
				loadedAny = true
			}
		}
		if footer.Samples != "" {
			samples, err := ParseSampleMetadata(footer.Samples)
			if err != nil {
				l.warn(fmt.Sprintf("%s: %v", f, err))
				continue
			}
			for _, s := range samples {
				if s.Name == sample {
					ds.Year, ds.Month, ds.SamplingDensity, ds.Label = s.Year, s.Month, s.SamplingDensity, s.Label
				}
			}
		}
	}

	if !loadedAny {
		return core.NewError(core.MetadataError, sample, "zero variables survived metadata parsing")
	}
	coll.AddDataset(ds)
	return nil
}

// recordTypeFromFilename extracts the trailing record-type code embedded in
// a parquet file name, e.g. "us2019_usaH.parquet" -> "H" (spec.md §4.1:
// "per-record-type files are named with the record type code embedded").
func recordTypeFromFilename(path string) string {
	base := filepath.Base(path)
	name := base[:len(base)-len(filepath.Ext(base))]
	if name == "" {
		return ""
	}
	return name[len(name)-1:]
}

func (l *Loader) loadFixedWidthSample(coll *core.Collection, sample, dataPath string) error {
	layoutPath := filepath.Join(filepath.Dir(dataPath), "layouts", sample+".layout.txt")
	if _, err := os.Stat(layoutPath); err != nil {
		layoutPath = filepath.Join(l.DataRoot, "layouts", sample+".layout.txt")
	}

	layout, err := ParseLayoutFile(layoutPath)
	if err != nil {
		return core.WrapError(core.MetadataError, sample, err, "load fixed-width layout")
	}

	ds := &core.Dataset{Name: sample, Variables: map[string]bool{}}
	count := 0
	for _, rt := range layout.RecordTypes() {
		if rt == "#" {
			continue
		}
		for _, lv := range layout.ForRecordType(rt).Vars {
			v := &core.Variable{
				Name:       lv.Name,
				DataType:   lv.DataType,
				RecordType: lv.RecType,
				Formatting: &core.Width{Start: lv.Start, Width: lv.Width},
			}
			coll.AddVariable(v)
			ds.Variables[v.Name] = true
			count++
		}
	}
	if count == 0 {
		return core.NewError(core.MetadataError, sample, "zero variables survived layout parsing")
	}
	coll.AddDataset(ds)
	return nil
}
