package core

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

var (
	cellRefRegex = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)(\d+)$`)
	rowRefRegex  = regexp.MustCompile(`^(\$?)(\d+)$`)
)

// rangeRef is one range operand of a formula, split at the sheet qualifier.
type rangeRef struct {
	Sheet string // empty when unqualified
	Ref   string // e.g. "B6:B15", "$A$1", "5:7"
}

// rewriteRanges applies fn to every range operand of formula. The formula text
// is returned unchanged when fn leaves every operand as it was.
func rewriteRanges(formula string, fn func(r rangeRef) string) string {
	// Array constants do not survive a token round trip.
	if strings.ContainsRune(formula, '{') {
		return formula
	}
	// A parser must not be reused: offsets and token state carry over.
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	changed := false
	for i, t := range tokens {
		if t.TType == efp.TokenTypeUnknown {
			return formula
		}
		if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeRange {
			continue
		}
		if strings.ContainsAny(t.TValue, "[]") {
			continue
		}
		r := splitRangeRef(t.TValue)
		out := fn(r)
		if out == r.Ref {
			continue
		}
		if r.Sheet != "" {
			out = r.Sheet + "!" + out
		}
		tokens[i].TValue = out
		changed = true
	}
	if !changed {
		return formula
	}
	return renderTokens(tokens, formula)
}

func splitRangeRef(value string) rangeRef {
	if i := strings.LastIndex(value, "!"); i >= 0 {
		return rangeRef{Sheet: value[:i], Ref: value[i+1:]}
	}
	return rangeRef{Ref: value}
}

// renderTokens writes tokens back as formula text. Sheet qualifiers are quoted
// the way they were quoted in source.
func renderTokens(tokens []efp.Token, source string) string {
	var b strings.Builder
	for _, t := range tokens {
		switch {
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart:
			b.WriteString(t.TValue)
			b.WriteRune(efp.ParenOpen)
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop:
			b.WriteRune(efp.ParenClose)
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStart:
			b.WriteRune(efp.ParenOpen)
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStop:
			b.WriteRune(efp.ParenClose)
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText:
			b.WriteRune(efp.QuoteDouble)
			b.WriteString(strings.ReplaceAll(t.TValue, `"`, `""`))
			b.WriteRune(efp.QuoteDouble)
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeRange:
			b.WriteString(quoteSheet(t.TValue, source))
		case t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeIntersection:
			b.WriteRune(efp.Whitespace)
		default:
			b.WriteString(t.TValue)
		}
	}
	return b.String()
}

func quoteSheet(value, source string) string {
	r := splitRangeRef(value)
	if r.Sheet == "" {
		return value
	}
	quoted := "'" + strings.ReplaceAll(r.Sheet, "'", "''") + "'"
	if strings.Contains(source, quoted+"!") || needsQuoting(r.Sheet) {
		return quoted + "!" + r.Ref
	}
	return value
}

func needsQuoting(sheet string) bool {
	for i, c := range sheet {
		switch {
		case c == '_' || c == '.':
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// ShiftFormulaRows moves every relative row reference of formula by delta, the
// way a spreadsheet adjusts a formula copied to another row. Absolute rows
// ($5) are kept.
func ShiftFormulaRows(formula string, delta int) string {
	if delta == 0 || formula == "" {
		return formula
	}
	return rewriteRanges(formula, func(r rangeRef) string {
		parts := strings.Split(r.Ref, ":")
		for i, p := range parts {
			parts[i] = shiftRefRow(p, delta)
		}
		return strings.Join(parts, ":")
	})
}

func shiftRefRow(ref string, delta int) string {
	if m := cellRefRegex.FindStringSubmatch(ref); m != nil {
		if m[3] == "$" {
			return ref
		}
		return m[1] + m[2] + m[3] + strconv.Itoa(clampRow(m[4], delta))
	}
	if m := rowRefRegex.FindStringSubmatch(ref); m != nil {
		if m[1] == "$" {
			return ref
		}
		return strconv.Itoa(clampRow(m[2], delta))
	}
	return ref
}

func clampRow(s string, delta int) int {
	row, _ := strconv.Atoi(s)
	if row += delta; row < 1 {
		row = 1
	}
	return row
}

// ExtendRangeEnd moves the last row of every two-cell range on sheet that
// starts at or above oldEnd and ends exactly at oldEnd, so a total keeps
// covering rows inserted below its original detail region. Unqualified
// ranges are taken to be on sheet.
func ExtendRangeEnd(formula, sheet string, oldEnd, newEnd int) string {
	if oldEnd == newEnd || formula == "" {
		return formula
	}
	return rewriteRanges(formula, func(r rangeRef) string {
		if r.Sheet != "" && r.Sheet != sheet {
			return r.Ref
		}
		parts := strings.Split(r.Ref, ":")
		if len(parts) != 2 {
			return r.Ref
		}
		from := cellRefRegex.FindStringSubmatch(parts[0])
		to := cellRefRegex.FindStringSubmatch(parts[1])
		if from == nil || to == nil {
			return r.Ref
		}
		fromRow, _ := strconv.Atoi(from[4])
		toRow, _ := strconv.Atoi(to[4])
		if toRow != oldEnd || fromRow > oldEnd {
			return r.Ref
		}
		return parts[0] + ":" + to[1] + to[2] + to[3] + strconv.Itoa(newEnd)
	})
}

// SumFormula renders the aggregate formula of a detail region.
func SumFormula(column string, startRow, endRow int) string {
	return "SUM(" + column + strconv.Itoa(startRow) + ":" + column + strconv.Itoa(endRow) + ")"
}
