package core

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	testSummary   = config.SheetSummary
	testGiven     = config.SheetAdvancesGiven
	testMeals     = "MEALS"
	testTransport = "TRANSPORT"
)

var testNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// templateStyles are the style ids registered by newTemplateFile.
type templateStyles struct {
	detail int
	date   int
	money  int
}

// newTemplateFile builds a reduced reconciliation template:
//
//	SUMMARY        anchors C3:C5, received rows 28-32, total B33, B36/B38/B40/B41
//	ADVANCES_GIVEN header row 5, detail rows 6-15, TOTAL row 16, mirror E3
//	MEALS          header row 4, detail rows 5-9, formula column E, no total row
//	TRANSPORT      header row 2, detail rows 3-4, TOTAL row 5
func newTemplateFile(t *testing.T) (*excelize.File, templateStyles) {
	t.Helper()
	f := excelize.NewFile()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build template: %v", err)
		}
	}
	must(f.SetSheetName("Sheet1", testSummary))
	for _, name := range []string{testGiven, testMeals, testTransport} {
		_, err := f.NewSheet(name)
		must(err)
	}

	var st templateStyles
	var err error
	st.detail, err = f.NewStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
	})
	must(err)
	st.date, err = f.NewStyle(&excelize.Style{NumFmt: 14})
	must(err)
	st.money, err = f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	must(err)

	set := func(sheet, cell string, v interface{}) { must(f.SetCellValue(sheet, cell, v)) }
	formula := func(sheet, cell, fml string) { must(f.SetCellFormula(sheet, cell, fml)) }
	style := func(sheet, from, to string, id int) { must(f.SetCellStyle(sheet, from, to, id)) }

	set(testSummary, "B3", "Proje")
	set(testSummary, "B4", "Tarih")
	set(testSummary, "B5", "Hazırlayan")
	set(testSummary, "C5", "(imza)")
	set(testSummary, "A27", "ALINAN AVANSLAR")
	style(testSummary, "A28", "B32", st.detail)
	set(testSummary, "A33", "TOPLAM")
	formula(testSummary, "B33", "SUM(B28:B32)")
	set(testSummary, "A36", "VERİLEN AVANSLAR")
	formula(testSummary, "B36", "'ADVANCES_GIVEN'!B16")
	set(testSummary, "A38", "KALAN")
	formula(testSummary, "B38", "B33-B36")
	set(testSummary, "A40", "HARCAMALAR")
	formula(testSummary, "B40", "SUM(MEALS!C5:C9)")
	set(testSummary, "A41", "TOPLAM HARCAMA")
	formula(testSummary, "B41", "B40+B36")

	set(testGiven, "D3", "TOPLAM")
	formula(testGiven, "E3", "B16")
	set(testGiven, "A5", "ALICI")
	set(testGiven, "B5", "TUTAR")
	style(testGiven, "A6", "B15", st.detail)
	set(testGiven, "A16", "TOTAL")
	formula(testGiven, "B16", "SUM(B6:B15)")
	formula(testGiven, "D18", "B16*2")

	set(testMeals, "A1", "YEMEK GİDERLERİ")
	for i, h := range []string{"TARİH", "FİŞ NO", "TUTAR", "AÇIKLAMA", "KDV"} {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		must(err)
		set(testMeals, cell, h)
	}
	style(testMeals, "A5", "A9", st.date)
	style(testMeals, "B5", "B9", st.detail)
	style(testMeals, "C5", "C9", st.money)
	style(testMeals, "D5", "E9", st.detail)
	for r := 5; r <= 9; r++ {
		cell, err := excelize.CoordinatesToCellName(5, r)
		must(err)
		ref, err := excelize.CoordinatesToCellName(3, r)
		must(err)
		formula(testMeals, cell, ref+"*0.18")
	}
	must(f.SetRowHeight(testMeals, 9, 22))

	for i, h := range []string{"DATE", "RECEIPT NO", "AMOUNT", "DESCRIPTION"} {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		must(err)
		set(testTransport, cell, h)
	}
	style(testTransport, "A3", "D4", st.detail)
	set(testTransport, "A5", "TOTAL")
	formula(testTransport, "C5", "SUM(C3:C4)")

	return f, st
}

// fileBytes serializes f the way a template is stored on disk.
func fileBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize template: %v", err)
	}
	return buf.Bytes()
}

// openBytes opens serialized workbook data and closes it with the test.
func openBytes(t *testing.T, data []byte) *Workbook {
	t.Helper()
	wb, err := OpenWorkbook(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenWorkbook() error = %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

// newTestWorkbook round-trips the reconciliation template through its file form.
func newTestWorkbook(t *testing.T) (*Workbook, templateStyles) {
	t.Helper()
	f, st := newTemplateFile(t)
	return openBytes(t, fileBytes(t, f)), st
}

func expense(category, description string, amount int64, at time.Time) TransactionRecord {
	return TransactionRecord{
		Kind:        KindExpense,
		Subtype:     SubtypeGeneric,
		Category:    NormalizeCategory(category),
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		OccurredAt:  at,
	}
}

func advance(subtype Subtype, counterparty string, amount int64, at time.Time) TransactionRecord {
	kind := KindIncome
	if subtype == SubtypeAdvanceOut {
		kind = KindExpense
	}
	return TransactionRecord{
		Kind:         kind,
		Subtype:      subtype,
		Counterparty: counterparty,
		Amount:       decimal.NewFromInt(amount),
		OccurredAt:   at,
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 9, 0, 0, 0, time.UTC)
}

func numberAt(t *testing.T, wb *Workbook, sheet string, row, col int) float64 {
	t.Helper()
	c, err := wb.Cell(sheet, row, col)
	if err != nil {
		t.Fatalf("Cell(%s, %d, %d) error = %v", sheet, row, col, err)
	}
	if c.Value.Kind != ValueNumber {
		t.Fatalf("%s!%s = %+v, want a number", sheet, cellName(row, col), c.Value)
	}
	return c.Value.Number
}

func formulaAt(t *testing.T, wb *Workbook, sheet string, row, col int) string {
	t.Helper()
	fml, err := wb.Formula(sheet, row, col)
	if err != nil {
		t.Fatalf("Formula(%s, %d, %d) error = %v", sheet, row, col, err)
	}
	return fml
}
