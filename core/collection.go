package core

// Collection is a product's conventions: its record-type hierarchy, its
// record types, and the variables/datasets loaded for it so far
// (spec.md §3 "Dataset (sample)", GLOSSARY "Product / collection").
//
// A Collection's metadata is immutable after load (spec.md §3 Lifecycle):
// callers only ever append new datasets/variables while loading, then treat
// the Collection as read-only.
type Collection struct {
	Name       string
	Hierarchy  *RecordHierarchy
	RecordTypes map[string]*RecordType

	variables map[string]*Variable
	datasets  map[string]*Dataset
}

// NewCollection builds an empty Collection for the named product with the
// given hierarchy and record types.
func NewCollection(name string, hierarchy *RecordHierarchy, recordTypes map[string]*RecordType) *Collection {
	return &Collection{
		Name:        name,
		Hierarchy:   hierarchy,
		RecordTypes: recordTypes,
		variables:   map[string]*Variable{},
		datasets:    map[string]*Dataset{},
	}
}

// AddVariable registers a variable descriptor, keyed by its uppercase
// mnemonic (spec.md §3: "Name (uppercase mnemonic, unique within a sample)").
// A later call with the same name overwrites the earlier one, since
// variable descriptors loaded from more than one sample's footer are
// expected to agree.
func (c *Collection) AddVariable(v *Variable) {
	c.variables[v.Name] = v
}

// AddDataset registers a dataset descriptor.
func (c *Collection) AddDataset(d *Dataset) {
	c.datasets[d.Name] = d
}

// LookupVariable resolves a variable by its canonical uppercase name
// (spec.md §4.1 "case-sensitive on the canonical uppercase form").
func (c *Collection) LookupVariable(name string) (*Variable, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// LookupSample resolves a dataset by name.
func (c *Collection) LookupSample(name string) (*Dataset, bool) {
	d, ok := c.datasets[name]
	return d, ok
}

// LookupRecordType resolves a record type by its code.
func (c *Collection) LookupRecordType(code string) (*RecordType, bool) {
	rt, ok := c.RecordTypes[code]
	return rt, ok
}

// Variables returns every loaded variable, for diagnostics and tests.
func (c *Collection) Variables() []*Variable {
	out := make([]*Variable, 0, len(c.variables))
	for _, v := range c.variables {
		out = append(out, v)
	}
	return out
}

// Datasets returns every loaded dataset, for merging collections loaded
// across multiple LoadSample calls (tabulate.Context.loadCollection).
func (c *Collection) Datasets() []*Dataset {
	out := make([]*Dataset, 0, len(c.datasets))
	for _, d := range c.datasets {
		out = append(out, d)
	}
	return out
}
