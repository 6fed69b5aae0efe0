package core

import (
	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
)

// ColumnMap binds the semantic fields of a detail row to 1-based columns.
// Zero means the field has no column.
type ColumnMap struct {
	Date        int
	ReceiptNo   int
	Amount      int
	Description int
}

// rowTexts returns the folded text of every cell in row.
func rowTexts(wb *Workbook, sheet string, row, cols int) []string {
	out := make([]string, cols)
	for col := 1; col <= cols; col++ {
		out[col-1] = FoldText(wb.Text(sheet, row, col))
	}
	return out
}

// LocateHeader returns the first row within the scan limit that names a date
// column and either a document column or an amount column. When there is
// none the configured fallback row is returned with found set to false.
func LocateHeader(wb *Workbook, sheet string, h *config.HeaderConfig) (row int, found bool, err error) {
	rowCount, err := wb.RowCount(sheet)
	if err != nil {
		return 0, false, err
	}
	limit := min(rowCount, h.ScanLimit)
	cols := wb.ColumnCount(sheet)
	for r := 1; r <= limit; r++ {
		var date, doc, money bool
		for _, text := range rowTexts(wb, sheet, r, cols) {
			if text == "" {
				continue
			}
			date = date || containsAny(text, h.DateTokens)
			doc = doc || containsAny(text, h.DocumentTokens)
			money = money || containsAny(text, h.AmountTokens)
		}
		if date && (doc || money) {
			return r, true, nil
		}
	}
	return h.FallbackRow, false, nil
}

// MapColumns binds fields to the header cells of row. Money columns are
// ranked: a header equal to a preferred token, then one containing it, then
// any amount token; the leftmost column wins within a rank. Date, amount and
// description fall back to fixed columns when unmatched.
func MapColumns(wb *Workbook, sheet string, row int, h *config.HeaderConfig) ColumnMap {
	var m ColumnMap
	amountRank := 0
	for i, text := range rowTexts(wb, sheet, row, wb.ColumnCount(sheet)) {
		col := i + 1
		if text == "" {
			continue
		}
		if m.Date == 0 && containsAny(text, h.DateTokens) {
			m.Date = col
			continue
		}
		if m.ReceiptNo == 0 && containsAny(text, h.DocumentTokens) && containsAny(text, h.NumberTokens) {
			m.ReceiptNo = col
			continue
		}
		if rank := moneyRank(text, h); rank > amountRank {
			m.Amount, amountRank = col, rank
			continue
		}
		if m.Description == 0 && containsAny(text, h.DescriptionTokens) {
			m.Description = col
		}
	}

	if m.Date == 0 {
		m.Date = h.FallbackDateColumn
	}
	if m.Amount == 0 {
		m.Amount = h.FallbackAmountColumn
	}
	if m.Description == 0 {
		m.Description = h.FallbackDescriptionColumn
	}
	return m
}

func moneyRank(text string, h *config.HeaderConfig) int {
	switch {
	case equalsAny(text, h.PreferredAmount):
		return 3
	case containsAny(text, h.PreferredAmount):
		return 2
	case containsAny(text, h.AmountTokens):
		return 1
	}
	return 0
}
