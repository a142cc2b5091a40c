package querygen

import (
	"fmt"
	"strings"

	"microtab/core"
	"microtab/request"
)

// qualifiedColumn renders "H"."AGE"-style qualified column reference.
func qualifiedColumn(d Dialect, recordType, column string) string {
	return d.QuoteIdentifier(recordType) + "." + d.QuoteIdentifier(column)
}

// projectVariable synthesizes the SQL expression a bound variable
// contributes to the SELECT list (spec.md §4.3 "Expression synthesis per
// tabulation variable v").
func projectVariable(d Dialect, bv request.BoundVariable) (string, error) {
	col := qualifiedColumn(d, bv.Variable.RecordType, bv.Variable.Name)

	if len(bv.Bins) > 0 {
		return binCaseExpr(d, col, bv.Bins)
	}
	if bv.Request.GeneralDetailedSelection == request.General && bv.Variable.HasGeneral() {
		return generalExpr(d, col, bv.Variable), nil
	}
	return col, nil
}

// binCaseExpr synthesizes the searched CASE expression recoding v's value
// into each bin's output code; values outside every bin produce SQL NULL.
func binCaseExpr(d Dialect, col string, bins []request.CategoryBin) (string, error) {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, b := range bins {
		pred, err := binPredicate(col, b)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, " WHEN %s THEN %d", pred, b.Code)
	}
	sb.WriteString(" ELSE NULL END")
	return sb.String(), nil
}

func binPredicate(col string, b request.CategoryBin) (string, error) {
	switch b.Kind {
	case request.BinLessThan:
		return fmt.Sprintf("%s < %d", col, b.High), nil
	case request.BinMoreThan:
		return fmt.Sprintf("%s > %d", col, b.Low), nil
	case request.BinRange:
		return fmt.Sprintf("%s BETWEEN %d AND %d", col, b.Low, b.High), nil
	default:
		return "", core.NewError(core.InvalidRequest, "", "invalid category bin kind %v", b.Kind)
	}
}

// generalExpr projects the left general_width digits of a fixed-width
// integer's detailed value, right-justified: an integer division (DuckDB's
// "//" operator) by the appropriate power of ten (spec.md §4.3 "If v has
// general selection").
func generalExpr(d Dialect, col string, v *core.Variable) string {
	shift := v.DetailedWidth() - v.GeneralWidth
	if shift <= 0 {
		return col
	}
	divisor := int64(1)
	for i := 0; i < shift; i++ {
		divisor *= 10
	}
	return fmt.Sprintf("(%s // %d)", col, divisor)
}

// subpopulationPredicate compiles spec.md §4.3's subpopulation rule: a
// conjunction over variables, each variable's own intervals ORed together,
// evaluated on the recoded value when the variable has category bins.
func subpopulationPredicate(d Dialect, vars []request.BoundVariable) (string, error) {
	var conjuncts []string
	for _, bv := range vars {
		expr, err := projectVariable(d, bv)
		if err != nil {
			return "", err
		}

		var disjuncts []string
		for _, cs := range bv.Request.RequestCaseSelections {
			disjuncts = append(disjuncts, caseSelectionPredicate(expr, cs))
		}
		if len(disjuncts) == 0 {
			continue
		}
		conjuncts = append(conjuncts, "("+strings.Join(disjuncts, " OR ")+")")
	}
	return strings.Join(conjuncts, " AND "), nil
}

func caseSelectionPredicate(expr string, cs request.RequestCaseSelection) string {
	switch cs.Kind {
	case request.CaseLessEqual:
		return fmt.Sprintf("%s <= %d", expr, cs.High)
	case request.CaseGreaterEqual:
		return fmt.Sprintf("%s >= %d", expr, cs.Low)
	default:
		return fmt.Sprintf("%s BETWEEN %d AND %d", expr, cs.Low, cs.High)
	}
}

// outputColumnMeta derives the (name, width, data_type) triple for a
// tabulation variable's output column (spec.md §4.3 "Output column order").
func outputColumnMeta(bv request.BoundVariable) ColumnMeta {
	meta := ColumnMeta{Name: bv.Variable.Name, DataType: bv.Variable.DataType}
	switch {
	case len(bv.Bins) > 0:
		meta.Width = maxBinCodeWidth(bv.Bins)
		meta.DataType = core.DataTypeInteger
	case bv.Request.GeneralDetailedSelection == request.General && bv.Variable.HasGeneral():
		meta.Width = bv.Variable.GeneralWidth
	default:
		meta.Width = bv.Variable.DetailedWidth()
	}
	return meta
}

func maxBinCodeWidth(bins []request.CategoryBin) int {
	width := 1
	for _, b := range bins {
		w := len(fmt.Sprintf("%d", b.Code))
		if w > width {
			width = w
		}
	}
	return width
}
