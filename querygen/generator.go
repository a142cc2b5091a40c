package querygen

import (
	"fmt"
	"sort"
	"strings"

	"microtab/core"
	"microtab/request"
)

// generator is the dialect-parameterized implementation of Generator.
// Join and expression synthesis are engine-agnostic; only FROM-clause table
// references and identifier/literal quoting are delegated to the dialect
// (spec.md §9 "Engine coupling").
type generator struct {
	dialect   Dialect
	hierarchy *core.RecordHierarchy
	records   map[string]*core.RecordType
}

// NewGenerator builds a Generator targeting dialect, resolving joins
// against hierarchy/records.
func NewGenerator(dialect Dialect, hierarchy *core.RecordHierarchy, records map[string]*core.RecordType) Generator {
	return &generator{dialect: dialect, hierarchy: hierarchy, records: records}
}

// TabulationQueries implements Generator (spec.md §4.3).
func (g *generator) TabulationQueries(bound *request.BoundRequest, files FileResolver) ([]Statement, error) {
	if len(bound.TabVariables) == 0 {
		return nil, core.NewError(core.InvalidRequest, "", "request has zero tabulation variables")
	}

	involved := g.involvedRecordTypes(bound)
	edges, err := planJoins(g.hierarchy, g.records, involved, bound.UOA.Code)
	if err != nil {
		return nil, err
	}

	stmts := make([]Statement, 0, len(bound.Samples))
	for _, sample := range bound.Samples {
		stmt, err := g.generateOne(bound, sample, edges, files)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (g *generator) involvedRecordTypes(bound *request.BoundRequest) []string {
	set := map[string]bool{bound.UOA.Code: true}
	for _, bv := range bound.TabVariables {
		set[bv.Variable.RecordType] = true
	}
	for _, bv := range bound.Subpopulation {
		set[bv.Variable.RecordType] = true
	}
	out := make([]string, 0, len(set))
	for rt := range set {
		out = append(out, rt)
	}
	sort.Strings(out)
	return out
}

// generateOne emits, for a single sample, a query of the shape
//
//	SELECT count(*) AS ct, <weight agg> AS weighted_ct, c1..ck FROM (
//	  SELECT DISTINCT <uoa unique id> AS _uid, cat_exprs AS c1..ck, <uoa weight> AS _w
//	  FROM ... joins ... WHERE <subpopulation>
//	) AS _rows
//	WHERE c1 IS NOT NULL AND ... AND ck IS NOT NULL
//	GROUP BY c1..ck
//	ORDER BY c1..ck ASC
//
// The inner DISTINCT deduplicates on the unit-of-analysis record before
// aggregation, so a join that fans a UOA row out to several rows of a
// descendant record type (spec.md §9 Open Question (i)) contributes each
// UOA record at most once per distinct tabulated tuple, rather than once
// per joined row.
func (g *generator) generateOne(bound *request.BoundRequest, sample request.BoundSample, edges []joinEdge, files FileResolver) (Statement, error) {
	uoaID := qualifiedColumn(g.dialect, bound.UOA.Code, bound.UOA.UniqueID)

	columns := []ColumnMeta{{Name: "ct", DataType: core.DataTypeInteger}, {Name: "weighted_ct", DataType: core.DataTypeFloat}}
	catRefs := make([]string, len(bound.TabVariables))
	innerSelect := []string{uoaID + " AS _uid"}
	for i, bv := range bound.TabVariables {
		expr, err := projectVariable(g.dialect, bv)
		if err != nil {
			return Statement{}, err
		}
		catRefs[i] = fmt.Sprintf("c%d", i+1)
		innerSelect = append(innerSelect, expr+" AS "+catRefs[i])
		columns = append(columns, outputColumnMeta(bv))
	}

	hasWeight := bound.UOA.HasWeight()
	if hasWeight {
		innerSelect = append(innerSelect, qualifiedColumn(g.dialect, bound.UOA.Code, bound.UOA.WeightName)+" AS _w")
	}

	var inner strings.Builder
	inner.WriteString("SELECT DISTINCT " + strings.Join(innerSelect, ", "))

	inner.WriteString("\n  FROM ")
	fromExpr, err := g.tableExprFor(bound.UOA.Code, sample.Request.Name, files)
	if err != nil {
		return Statement{}, err
	}
	inner.WriteString(fromExpr + " AS " + g.dialect.QuoteIdentifier(bound.UOA.Code))

	// edges are ordered to grow outward from the UOA (orderEdges), but a
	// foreign key's Child/Parent roles are fixed by the hierarchy, not by
	// which side is the UOA: when the UOA is the FK-owning record type
	// (e.g. a person joining up to its household), the edge's Parent is
	// the table newly introduced, not its Child. Join whichever side
	// isn't already present in the FROM clause.
	present := map[string]bool{bound.UOA.Code: true}
	for _, e := range edges {
		newSide := e.Child
		if present[e.Child] {
			newSide = e.Parent
		}
		newExpr, err := g.tableExprFor(newSide, sample.Request.Name, files)
		if err != nil {
			return Statement{}, err
		}
		fmt.Fprintf(&inner, "\n  INNER JOIN %s AS %s ON %s = %s",
			newExpr, g.dialect.QuoteIdentifier(newSide),
			qualifiedColumn(g.dialect, e.Child, e.ChildColumn),
			qualifiedColumn(g.dialect, e.Parent, g.records[e.Parent].UniqueID))
		present[newSide] = true
	}

	where, err := subpopulationPredicate(g.dialect, bound.Subpopulation)
	if err != nil {
		return Statement{}, err
	}
	if where != "" {
		inner.WriteString("\n  WHERE " + where)
	}

	weightedAgg := "count(*)"
	if hasWeight {
		weightedAgg = "sum(_w)"
		if bound.UOA.WeightDivisor > 1 {
			weightedAgg = fmt.Sprintf("sum(_w / %d)", bound.UOA.WeightDivisor)
		}
	}

	var sb strings.Builder
	outer := append([]string{"count(*) AS ct", weightedAgg + " AS weighted_ct"}, catRefs...)
	sb.WriteString("SELECT " + strings.Join(outer, ", "))
	sb.WriteString("\nFROM (\n  " + inner.String() + "\n) AS _rows")
	if len(catRefs) > 0 {
		notNull := make([]string, len(catRefs))
		for i, ref := range catRefs {
			notNull[i] = ref + " IS NOT NULL"
		}
		sb.WriteString("\nWHERE " + strings.Join(notNull, " AND "))
		sb.WriteString("\nGROUP BY " + strings.Join(catRefs, ", "))
		sb.WriteString("\nORDER BY " + strings.Join(catRefs, ", ") + " ASC")
	}

	return Statement{Sample: sample.Request.Name, SQL: sb.String(), Columns: columns}, nil
}

func (g *generator) tableExprFor(recordType, sample string, files FileResolver) (string, error) {
	rt, ok := g.records[recordType]
	if !ok {
		return "", core.NewError(core.QueryError, recordType, "unknown record type")
	}
	paths, err := files.Resolve(sample, rt)
	if err != nil {
		return "", core.WrapError(core.QueryError, recordType, err, "resolve data files for sample %q", sample)
	}
	if len(paths) == 0 {
		return "", core.NewError(core.QueryError, recordType, "no data files found for sample %q", sample)
	}
	return g.dialect.TableExpr(paths), nil
}

