package core

// ForeignKey names the parent record type a child record references, and
// the column on the child holding the parent's unique id (spec.md §3).
type ForeignKey struct {
	ParentCode string
	Column     string
}

// RecordType describes one record type (household, person, activity, ...)
// within a product's hierarchy (spec.md §3).
type RecordType struct {
	Code        string
	Name        string
	UniqueID    string
	ForeignKeys []ForeignKey
	WeightName  string
	WeightDivisor int // power of ten; 0/1 means no scaling
}

// HasWeight reports whether this record type carries a weight column.
func (rt *RecordType) HasWeight() bool { return rt.WeightName != "" }

// RecordHierarchy is a rooted tree of record-type codes stored as two
// parallel index slices, per spec.md §9's guidance to avoid mutual owning
// references: children[i] lists the indices of i's children, parent[i] is
// i's parent index (-1 for the root).
type RecordHierarchy struct {
	codes    []string
	index    map[string]int
	children [][]int
	parent   []int
	root     int
}

// NewRecordHierarchy builds a hierarchy with rootCode as its single root.
func NewRecordHierarchy(rootCode string) *RecordHierarchy {
	h := &RecordHierarchy{index: map[string]int{}}
	h.root = h.addNode(rootCode, -1)
	return h
}

func (h *RecordHierarchy) addNode(code string, parent int) int {
	idx := len(h.codes)
	h.codes = append(h.codes, code)
	h.children = append(h.children, nil)
	h.parent = append(h.parent, parent)
	h.index[code] = idx
	if parent >= 0 {
		h.children[parent] = append(h.children[parent], idx)
	}
	return idx
}

// AddChild attaches childCode as a direct child of parentCode. It panics if
// parentCode is unknown, mirroring the arena-construction-time invariant
// enforcement the teacher applies in its schema builders.
func (h *RecordHierarchy) AddChild(childCode, parentCode string) {
	parentIdx, ok := h.index[parentCode]
	if !ok {
		panic("core: unknown parent record type " + parentCode)
	}
	h.addNode(childCode, parentIdx)
}

// Root returns the root record-type code.
func (h *RecordHierarchy) Root() string { return h.codes[h.root] }

// Parent returns the parent code of code, and false if code is the root or
// unknown.
func (h *RecordHierarchy) Parent(code string) (string, bool) {
	idx, ok := h.index[code]
	if !ok || h.parent[idx] < 0 {
		return "", false
	}
	return h.codes[h.parent[idx]], true
}

// Contains reports whether code is part of the hierarchy.
func (h *RecordHierarchy) Contains(code string) bool {
	_, ok := h.index[code]
	return ok
}

// PathToRoot returns code and every ancestor up to and including the root,
// in child-to-root order.
func (h *RecordHierarchy) PathToRoot(code string) []string {
	idx, ok := h.index[code]
	if !ok {
		return nil
	}
	var path []string
	for idx >= 0 {
		path = append(path, h.codes[idx])
		idx = h.parent[idx]
	}
	return path
}

// CommonAncestorChain finds the shortest chain of foreign-key edges joining
// a and b through their nearest common ancestor, per spec.md §4.3's join
// strategy: "choose the unique shortest path; if a tie remains, order
// parents lexicographically by code." It returns the ordered list of record
// types visited from a up to the ancestor, then down to b (ancestor appears
// once). Returns false if a or b is unknown.
func (h *RecordHierarchy) CommonAncestorChain(a, b string) ([]string, bool) {
	if !h.Contains(a) || !h.Contains(b) {
		return nil, false
	}
	pathA := h.PathToRoot(a)
	pathB := h.PathToRoot(b)
	posB := map[string]int{}
	for i, c := range pathB {
		posB[c] = i
	}
	for i, c := range pathA {
		if j, ok := posB[c]; ok {
			up := append([]string{}, pathA[:i+1]...)
			down := append([]string{}, pathB[:j]...)
			for k, l := 0, len(down)-1; k < l; k, l = k+1, l-1 {
				down[k], down[l] = down[l], down[k]
			}
			return append(up, down...), true
		}
	}
	return nil, false
}
