package metadata

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"microtab/core"
)

// builtinConventions returns the fixed household/person hierarchy shared by
// the usa, cps and ipumsi product defaults (original_source/src/defaults.rs:
// default_household_weight/default_person_weight/default_hierarchy are
// identical across all three products, varying only in name).
func builtinConventions(name string) *core.Collection {
	hierarchy := core.NewRecordHierarchy("H")
	hierarchy.AddChild("P", "H")

	recordTypes := map[string]*core.RecordType{
		"H": {
			Code:       "H",
			Name:       "Household",
			UniqueID:   "SERIAL",
			WeightName: "HHWT",
		},
		"P": {
			Code:     "P",
			Name:     "Person",
			UniqueID: "PERNUM",
			ForeignKeys: []core.ForeignKey{
				{ParentCode: "H", Column: "SERIAL"},
			},
			WeightName: "PERWT",
		},
	}
	return core.NewCollection(name, hierarchy, recordTypes)
}

// BuiltinProducts lists the products with a built-in (no-TOML-needed)
// hierarchy, per spec.md §4.1.
var BuiltinProducts = []string{"usa", "cps", "ipumsi"}

// DefaultConventions returns the built-in Collection for one of
// BuiltinProducts, or ok=false for any other name.
func DefaultConventions(product string) (*core.Collection, bool) {
	for _, p := range BuiltinProducts {
		if p == product {
			return builtinConventions(product), true
		}
	}
	return nil, false
}

// tomlConventions is the on-disk shape of a conventions.toml override file,
// for products whose record hierarchy differs from the household/person
// default (spec.md §4.1 "conventions may be overridden per product").
type tomlConventions struct {
	Name      string            `toml:"name"`
	Root      string            `toml:"root"`
	Records   []tomlRecordType  `toml:"record"`
}

type tomlRecordType struct {
	Code          string `toml:"code"`
	Name          string `toml:"name"`
	UniqueID      string `toml:"unique_id"`
	Parent        string `toml:"parent"`
	ParentColumn  string `toml:"parent_column"`
	WeightName    string `toml:"weight_name"`
	WeightDivisor int    `toml:"weight_divisor"`
}

// LoadConventionsFile reads a conventions.toml override and builds a
// Collection from it.
func LoadConventionsFile(path string) (*core.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.IoError, path, err, "open conventions file")
	}
	defer f.Close()
	return LoadConventions(f, path)
}

// LoadConventions parses conventions TOML content from r.
func LoadConventions(r io.Reader, name string) (*core.Collection, error) {
	var tc tomlConventions
	if _, err := toml.NewDecoder(r).Decode(&tc); err != nil {
		return nil, core.WrapError(core.ParseError, name, err, "decode conventions TOML")
	}
	if tc.Root == "" {
		return nil, core.NewError(core.MetadataError, name, "conventions file declares no root record type")
	}

	hierarchy := core.NewRecordHierarchy(tc.Root)
	recordTypes := map[string]*core.RecordType{}

	byCode := map[string]tomlRecordType{}
	for _, rt := range tc.Records {
		byCode[rt.Code] = rt
	}
	root, ok := byCode[tc.Root]
	if !ok {
		return nil, core.NewError(core.MetadataError, name, "root record type %q not declared in [[record]]", tc.Root)
	}
	recordTypes[tc.Root] = toCoreRecordType(root)

	// Attach the remaining record types breadth-first from the root so
	// every AddChild call has a known parent, regardless of declaration
	// order in the file.
	remaining := map[string]tomlRecordType{}
	for code, rt := range byCode {
		if code != tc.Root {
			remaining[code] = rt
		}
	}
	for len(remaining) > 0 {
		progressed := false
		for code, rt := range remaining {
			if !hierarchy.Contains(rt.Parent) {
				continue
			}
			hierarchy.AddChild(code, rt.Parent)
			recordTypes[code] = toCoreRecordType(rt)
			delete(remaining, code)
			progressed = true
		}
		if !progressed {
			codes := make([]string, 0, len(remaining))
			for code := range remaining {
				codes = append(codes, code)
			}
			return nil, fmt.Errorf("metadata: conventions %s: record types %v reference an unreachable parent", name, codes)
		}
	}

	return core.NewCollection(tc.Name, hierarchy, recordTypes), nil
}

func toCoreRecordType(rt tomlRecordType) *core.RecordType {
	out := &core.RecordType{
		Code:          rt.Code,
		Name:          rt.Name,
		UniqueID:      rt.UniqueID,
		WeightName:    rt.WeightName,
		WeightDivisor: rt.WeightDivisor,
	}
	if rt.Parent != "" {
		out.ForeignKeys = []core.ForeignKey{{ParentCode: rt.Parent, Column: rt.ParentColumn}}
	}
	return out
}
