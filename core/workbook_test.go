package core

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestOpenWorkbook_Unreadable(t *testing.T) {
	_, err := OpenWorkbook(bytes.NewReader([]byte("not a zip archive")))
	if !errors.Is(err, ErrTemplateUnreadable) {
		t.Fatalf("OpenWorkbook() error = %v, want ErrTemplateUnreadable", err)
	}
}

func TestWorkbook_SheetsAndCounts(t *testing.T) {
	wb, _ := newTestWorkbook(t)

	want := []string{testSummary, testGiven, testMeals, testTransport}
	got := wb.Sheets()
	if len(got) != len(want) {
		t.Fatalf("Sheets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sheets()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !wb.HasSheet(testMeals) || wb.HasSheet("meals") {
		t.Errorf("HasSheet must match sheet names exactly")
	}

	rows, err := wb.RowCount(testMeals)
	if err != nil {
		t.Fatalf("RowCount() error = %v", err)
	}
	if rows != 9 {
		t.Errorf("RowCount(MEALS) = %d, want 9", rows)
	}
	if cols := wb.ColumnCount(testMeals); cols != minScanColumns {
		t.Errorf("ColumnCount(MEALS) = %d, want %d", cols, minScanColumns)
	}
}

func TestWorkbook_CellKinds(t *testing.T) {
	wb, st := newTestWorkbook(t)

	if err := wb.SetNumber(testMeals, 5, 3, 120.5); err != nil {
		t.Fatalf("SetNumber() error = %v", err)
	}
	if err := wb.SetText(testMeals, 5, 4, "Öğle yemeği"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}

	tests := []struct {
		name    string
		row     int
		col     int
		want    CellValue
		formula string
		style   int
	}{
		{name: "number keeps style", row: 5, col: 3, want: NumberValue(120.5), style: st.money},
		{name: "text keeps style", row: 5, col: 4, want: TextValue("Öğle yemeği"), style: st.detail},
		{name: "header text", row: 4, col: 2, want: TextValue("FİŞ NO")},
		{name: "formula", row: 5, col: 5, formula: "C5*0.18", style: st.detail},
		{name: "empty styled", row: 6, col: 1, style: st.date},
		{name: "empty", row: 30, col: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := wb.Cell(testMeals, tt.row, tt.col)
			if err != nil {
				t.Fatalf("Cell() error = %v", err)
			}
			if c.Value != tt.want {
				t.Errorf("Value = %+v, want %+v", c.Value, tt.want)
			}
			if c.Formula != tt.formula {
				t.Errorf("Formula = %q, want %q", c.Formula, tt.formula)
			}
			if int(c.Style) != tt.style {
				t.Errorf("Style = %d, want %d", c.Style, tt.style)
			}
		})
	}
}

func TestWorkbook_ClearKeepsStyle(t *testing.T) {
	wb, st := newTestWorkbook(t)

	if err := wb.Clear(testMeals, 5, 5); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	c, err := wb.Cell(testMeals, 5, 5)
	if err != nil {
		t.Fatalf("Cell() error = %v", err)
	}
	if c.IsFormula() || c.Value.Kind != ValueEmpty {
		t.Errorf("cleared cell = %+v, want empty", c)
	}
	if int(c.Style) != st.detail {
		t.Errorf("cleared cell style = %d, want %d", c.Style, st.detail)
	}
}

func TestWorkbook_CloneRow(t *testing.T) {
	wb, _ := newTestWorkbook(t)

	if err := wb.CloneRow(testMeals, 9, 12, wb.ColumnCount(testMeals), true); err != nil {
		t.Fatalf("CloneRow() error = %v", err)
	}
	for col := 1; col <= 5; col++ {
		src, _ := wb.Style(testMeals, 9, col)
		dst, _ := wb.Style(testMeals, 12, col)
		if src != dst {
			t.Errorf("column %d style = %d, want %d", col, dst, src)
		}
	}
	if got := formulaAt(t, wb, testMeals, 12, 5); got != "C12*0.18" {
		t.Errorf("cloned formula = %q, want C12*0.18", got)
	}
	meta, err := wb.RowMeta(testMeals, 12)
	if err != nil {
		t.Fatalf("RowMeta() error = %v", err)
	}
	if meta.Height != 22 || meta.Hidden {
		t.Errorf("cloned row meta = %+v, want height 22 and visible", meta)
	}

	if err := wb.CloneRow(testMeals, 9, 13, wb.ColumnCount(testMeals), false); err != nil {
		t.Fatalf("CloneRow() error = %v", err)
	}
	if got := formulaAt(t, wb, testMeals, 13, 5); got != "" {
		t.Errorf("formula copied without withFormulas: %q", got)
	}
}

func TestWorkbook_RowMetaPastEnd(t *testing.T) {
	wb, _ := newTestWorkbook(t)

	meta, err := wb.RowMeta(testMeals, 500)
	if err != nil {
		t.Fatalf("RowMeta() error = %v", err)
	}
	if meta.Hidden {
		t.Errorf("row past the sheet data reported hidden")
	}
}

func TestWorkbook_InsertRowsMovesReferences(t *testing.T) {
	wb, _ := newTestWorkbook(t)

	if err := wb.InsertRows(testGiven, 16, 0); err != nil {
		t.Fatalf("InsertRows(0) error = %v", err)
	}
	if err := wb.InsertRows(testGiven, 16, 2); err != nil {
		t.Fatalf("InsertRows() error = %v", err)
	}
	if got := wb.Text(testGiven, 18, 1); got != "TOTAL" {
		t.Errorf("A18 = %q, want TOTAL", got)
	}
	if got := formulaAt(t, wb, testGiven, 20, 4); got != "B18*2" {
		t.Errorf("D20 = %q, want B18*2", got)
	}
	if got := wb.Text(testGiven, 16, 1); got != "" {
		t.Errorf("inserted row not blank: %q", got)
	}
}

func TestWorkbook_ActivateAndSerialize(t *testing.T) {
	wb, _ := newTestWorkbook(t)

	if err := wb.Activate(testMeals, "A1"); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := wb.Activate("NOPE", "A1"); !errors.Is(err, ErrSheetMissing) {
		t.Errorf("Activate(missing) error = %v, want ErrSheetMissing", err)
	}

	buf, err := wb.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("serialized workbook does not reopen: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetName(f.GetActiveSheetIndex()); got != testMeals {
		t.Errorf("active sheet = %q, want %q", got, testMeals)
	}
}

func TestDateSerial(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{name: "epoch day one", at: time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), want: 2},
		{name: "unix epoch", at: time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), want: 25569},
		{name: "time of day dropped", at: time.Date(1970, time.January, 1, 23, 59, 0, 0, time.UTC), want: 25569},
		{name: "offset keeps local date", at: time.Date(1970, time.January, 2, 1, 0, 0, 0, time.FixedZone("TRT", 3*3600)), want: 25570},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateSerial(tt.at); got != tt.want {
				t.Errorf("DateSerial() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorkbook_SetDateHonorsDateSystem(t *testing.T) {
	at := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		date1904 bool
		want     float64
	}{
		{name: "1900 system", want: DateSerial(at)},
		{name: "1904 system", date1904: true, want: DateSerial(at) - 1462},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, st := newTemplateFile(t)
			if err := f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &tt.date1904}); err != nil {
				t.Fatal(err)
			}
			wb := openBytes(t, fileBytes(t, f))

			if err := wb.SetDate(testMeals, 5, 1, at); err != nil {
				t.Fatalf("SetDate() error = %v", err)
			}
			if got := numberAt(t, wb, testMeals, 5, 1); got != tt.want {
				t.Errorf("A5 = %v, want %v", got, tt.want)
			}
			if got, _ := wb.Style(testMeals, 5, 1); int(got) != st.date {
				t.Errorf("A5 style = %d, want %d", got, st.date)
			}
		})
	}
}
