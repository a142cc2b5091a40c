package querygen

import (
	"sort"

	"microtab/core"
)

// joinEdge is one resolved foreign-key edge between a child record type and
// its parent, ready for ON-clause emission.
type joinEdge struct {
	Child       string
	Parent      string
	ChildColumn string // column on Child equal to Parent's unique id
}

// planJoins resolves the set of record types named in involved, relative to
// the unit-of-analysis record type uoa, into a deterministic ordered list of
// join edges spanning every involved type (spec.md §4.3 "Join strategy").
// Fails with an InvalidRequest error if any involved type has no
// foreign-key chain to uoa.
func planJoins(hierarchy *core.RecordHierarchy, recordTypes map[string]*core.RecordType, involved []string, uoa string) ([]joinEdge, error) {
	edgeSet := map[[2]string]joinEdge{}

	for _, code := range involved {
		if code == uoa {
			continue
		}
		chain, ok := hierarchy.CommonAncestorChain(code, uoa)
		if !ok {
			return nil, core.NewError(core.InvalidRequest, code, "no foreign-key chain from record type %q to unit of analysis %q", code, uoa)
		}
		for i := 0; i+1 < len(chain); i++ {
			a, b := chain[i], chain[i+1]
			child, parent, ok := orientEdge(hierarchy, a, b)
			if !ok {
				return nil, core.NewError(core.QueryError, code, "record types %q and %q are not directly related in the hierarchy", a, b)
			}
			col, err := foreignKeyColumn(recordTypes, child, parent)
			if err != nil {
				return nil, err
			}
			key := [2]string{child, parent}
			edgeSet[key] = joinEdge{Child: child, Parent: parent, ChildColumn: col}
		}
	}

	return orderEdges(edgeSet, uoa), nil
}

// orientEdge reports which of a, b is the child (the one whose parent is
// the other), given their positions are adjacent in a root-ward path.
func orientEdge(h *core.RecordHierarchy, a, b string) (child, parent string, ok bool) {
	if p, has := h.Parent(a); has && p == b {
		return a, b, true
	}
	if p, has := h.Parent(b); has && p == a {
		return b, a, true
	}
	return "", "", false
}

func foreignKeyColumn(recordTypes map[string]*core.RecordType, child, parent string) (string, error) {
	rt, ok := recordTypes[child]
	if !ok {
		return "", core.NewError(core.QueryError, child, "unknown record type")
	}
	for _, fk := range rt.ForeignKeys {
		if fk.ParentCode == parent {
			return fk.Column, nil
		}
	}
	return "", core.NewError(core.QueryError, child, "record type %q declares no foreign key to parent %q", child, parent)
}

// orderEdges emits edges in a deterministic "grow outward from uoa" order:
// edges are sorted by (Parent, Child), and each pass walks them in that
// order, emitting every edge with exactly one endpoint already joined;
// passes repeat until no edge remains (spec.md §4.3 "if a tie remains,
// order parents lexicographically by code").
func orderEdges(edgeSet map[[2]string]joinEdge, uoa string) []joinEdge {
	remaining := make([]joinEdge, 0, len(edgeSet))
	for _, e := range edgeSet {
		remaining = append(remaining, e)
	}
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].Parent != remaining[j].Parent {
			return remaining[i].Parent < remaining[j].Parent
		}
		return remaining[i].Child < remaining[j].Child
	})

	joined := map[string]bool{uoa: true}
	var ordered []joinEdge
	for len(remaining) > 0 {
		progressed := false
		var next []joinEdge
		for _, e := range remaining {
			if joined[e.Parent] && !joined[e.Child] {
				ordered = append(ordered, e)
				joined[e.Child] = true
				progressed = true
			} else if joined[e.Child] && !joined[e.Parent] {
				ordered = append(ordered, e)
				joined[e.Parent] = true
				progressed = true
			} else if !joined[e.Child] && !joined[e.Parent] {
				next = append(next, e)
			}
		}
		if !progressed {
			// Every remaining edge touches an already-joined relation on
			// neither end yet (disconnected component); emit as-is in
			// sorted order rather than loop forever.
			ordered = append(ordered, next...)
			break
		}
		remaining = next
	}
	return ordered
}
