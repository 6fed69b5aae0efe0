package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// minScanColumns is the narrowest width used when cloning a row; templates
// often carry borders in columns that hold no value.
const minScanColumns = 26

// Style is a workbook style index. Two cells with the same Style render with
// the same font, fill, border, alignment and number format.
type Style int

// ValueKind tags the literal held by a cell.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueText
	ValueNumber
)

// CellValue is a literal cell value.
type CellValue struct {
	Kind   ValueKind
	Text   string
	Number float64
}

// TextValue returns a text literal.
func TextValue(s string) CellValue {
	return CellValue{Kind: ValueText, Text: s}
}

// NumberValue returns a numeric literal.
func NumberValue(n float64) CellValue {
	return CellValue{Kind: ValueNumber, Number: n}
}

// Cell is either a literal value or a formula, plus its style.
type Cell struct {
	Value   CellValue
	Formula string
	Style   Style
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

// RowMeta is the row-level formatting of a sheet row.
type RowMeta struct {
	Height       float64
	Hidden       bool
	OutlineLevel uint8
}

// Workbook is the in-memory template being filled. All mutation goes through
// the typed setters below; sheets are never created or removed.
type Workbook struct {
	file ExcelFile
	// date1904 is set for workbooks using the 1904 date system.
	date1904 bool
}

// NewWorkbook wraps an open ExcelFile.
func NewWorkbook(file ExcelFile) (*Workbook, error) {
	props, err := file.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook properties: %w", err)
	}
	return &Workbook{file: file, date1904: props.Date1904 != nil && *props.Date1904}, nil
}

// OpenWorkbook reads a workbook from r. Any failure is ErrTemplateUnreadable.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	file, err := openExcelFile(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnreadable, err)
	}
	wb, err := NewWorkbook(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnreadable, err)
	}
	return wb, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether a sheet with exactly this name exists.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// RowCount returns the last populated or formatted row of sheet.
func (w *Workbook) RowCount(sheet string) (int, error) {
	last, err := w.file.LastRow(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows of '%s': %w", sheet, err)
	}
	if _, dimRow, ok := w.dimension(sheet); ok && dimRow > last {
		last = dimRow
	}
	return last, nil
}

// ColumnCount returns the width used when a whole row is scanned or cloned.
func (w *Workbook) ColumnCount(sheet string) int {
	cols := minScanColumns
	if dimCol, _, ok := w.dimension(sheet); ok && dimCol > cols {
		cols = dimCol
	}
	return cols
}

// dimension returns the bottom-right corner of the sheet's stored dimension.
func (w *Workbook) dimension(sheet string) (col, row int, ok bool) {
	ref, err := w.file.GetSheetDimension(sheet)
	if err != nil || ref == "" {
		return 0, 0, false
	}
	corner := ref
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		corner = ref[i+1:]
	}
	col, row, err = excelize.CellNameToCoordinates(strings.ReplaceAll(corner, "$", ""))
	if err != nil {
		return 0, 0, false
	}
	return col, row, true
}

func cellName(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// row and col come from sheet scans and configured columns.
		panic(err)
	}
	return name
}

func parseCell(ref string) (col, row int, err error) {
	return excelize.CellNameToCoordinates(strings.ReplaceAll(ref, "$", ""))
}

// Cell returns the typed content of a cell.
func (w *Workbook) Cell(sheet string, row, col int) (Cell, error) {
	ref := cellName(row, col)
	var c Cell
	style, err := w.file.GetCellStyle(sheet, ref)
	if err != nil {
		return c, err
	}
	c.Style = Style(style)
	if c.Formula, err = w.file.GetCellFormula(sheet, ref); err != nil {
		return c, err
	}
	raw, err := w.file.GetCellValue(sheet, ref)
	if err != nil || raw == "" {
		return c, err
	}
	typ, err := w.file.GetCellType(sheet, ref)
	if err != nil {
		return c, err
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, perr := strconv.ParseFloat(raw, 64); perr == nil {
			c.Value = NumberValue(n)
			return c, nil
		}
	}
	c.Value = TextValue(raw)
	return c, nil
}

// Text returns the raw text of a cell, or "" when it cannot be read.
func (w *Workbook) Text(sheet string, row, col int) string {
	v, err := w.file.GetCellValue(sheet, cellName(row, col))
	if err != nil {
		return ""
	}
	return v
}

// Formula returns the formula of a cell without the leading '='.
func (w *Workbook) Formula(sheet string, row, col int) (string, error) {
	return w.file.GetCellFormula(sheet, cellName(row, col))
}

// Style returns the style of a cell.
func (w *Workbook) Style(sheet string, row, col int) (Style, error) {
	s, err := w.file.GetCellStyle(sheet, cellName(row, col))
	return Style(s), err
}

// SetText writes a text literal, keeping the cell style.
func (w *Workbook) SetText(sheet string, row, col int, s string) error {
	return w.file.SetCellStr(sheet, cellName(row, col), s)
}

// SetNumber writes a numeric literal, keeping the cell style.
func (w *Workbook) SetNumber(sheet string, row, col int, n float64) error {
	return w.file.SetCellFloat(sheet, cellName(row, col), n)
}

// SetDate writes the calendar date of t as a spreadsheet serial number, so
// the cell's own number format decides how it is shown.
func (w *Workbook) SetDate(sheet string, row, col int, t time.Time) error {
	return w.SetNumber(sheet, row, col, w.DateSerial(t))
}

// DateSerial is the serial of t's calendar day in the workbook's own date
// system.
func (w *Workbook) DateSerial(t time.Time) float64 {
	if w.date1904 {
		return DateSerial(t) - date1904Offset
	}
	return DateSerial(t)
}

// SetFormula writes a formula, keeping the cell style.
func (w *Workbook) SetFormula(sheet string, row, col int, formula string) error {
	return w.file.SetCellFormula(sheet, cellName(row, col), strings.TrimPrefix(formula, "="))
}

// SetStyle applies a style to a cell.
func (w *Workbook) SetStyle(sheet string, row, col int, style Style) error {
	ref := cellName(row, col)
	return w.file.SetCellStyle(sheet, ref, ref, int(style))
}

// Clear removes the value and formula of a cell, keeping its style.
func (w *Workbook) Clear(sheet string, row, col int) error {
	return w.file.SetCellValue(sheet, cellName(row, col), nil)
}

// RowMeta returns the row-level formatting of row.
func (w *Workbook) RowMeta(sheet string, row int) (RowMeta, error) {
	var m RowMeta
	var err error
	if m.Height, err = w.file.GetRowHeight(sheet, row); err != nil {
		return m, err
	}
	visible, err := w.file.GetRowVisible(sheet, row)
	if err != nil {
		return m, err
	}
	if !visible {
		// Rows past the end of the sheet data read as not visible.
		last, err := w.file.LastRow(sheet)
		if err != nil {
			return m, err
		}
		m.Hidden = row <= last
	}
	if m.OutlineLevel, err = w.file.GetRowOutlineLevel(sheet, row); err != nil {
		return m, err
	}
	return m, nil
}

// SetRowMeta applies row-level formatting, writing only what differs.
func (w *Workbook) SetRowMeta(sheet string, row int, m RowMeta) error {
	cur, err := w.RowMeta(sheet, row)
	if err != nil {
		return err
	}
	if cur.Height != m.Height {
		if err := w.file.SetRowHeight(sheet, row, m.Height); err != nil {
			return err
		}
	}
	if cur.Hidden != m.Hidden {
		if err := w.file.SetRowVisible(sheet, row, !m.Hidden); err != nil {
			return err
		}
	}
	// Level 0 cannot be written back; only grouped rows are copied.
	if m.OutlineLevel > 0 && cur.OutlineLevel != m.OutlineLevel {
		if err := w.file.SetRowOutlineLevel(sheet, row, m.OutlineLevel); err != nil {
			return err
		}
	}
	return nil
}

// InsertRows inserts n blank rows before row. References at or below row,
// on every sheet, are re-pointed by the workbook engine.
func (w *Workbook) InsertRows(sheet string, row, n int) error {
	if n <= 0 {
		return nil
	}
	if err := w.file.InsertRows(sheet, row, n); err != nil {
		return fmt.Errorf("failed to insert %d rows at %s!%d: %w", n, sheet, row, err)
	}
	return nil
}

// CloneRow copies the row formatting and each cell style of src onto dst
// across lastCol columns. With withFormulas, formulas are copied too, their
// relative rows moved to dst. Values are never copied.
func (w *Workbook) CloneRow(sheet string, src, dst, lastCol int, withFormulas bool) error {
	meta, err := w.RowMeta(sheet, src)
	if err != nil {
		return err
	}
	if err := w.SetRowMeta(sheet, dst, meta); err != nil {
		return err
	}
	for col := 1; col <= lastCol; col++ {
		from, err := w.Cell(sheet, src, col)
		if err != nil {
			return err
		}
		to, err := w.Style(sheet, dst, col)
		if err != nil {
			return err
		}
		if from.Style != to {
			if err := w.SetStyle(sheet, dst, col, from.Style); err != nil {
				return err
			}
		}
		if withFormulas && from.IsFormula() {
			if err := w.SetFormula(sheet, dst, col, ShiftFormulaRows(from.Formula, dst-src)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Activate makes sheet the active tab with the cursor on cell.
func (w *Workbook) Activate(sheet, cell string) error {
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetMissing, sheet)
	}
	w.file.SetActiveSheet(idx)
	return w.file.SetSelection(sheet, cell)
}

// Serialize flattens the workbook to an OOXML buffer.
func (w *Workbook) Serialize() (*bytes.Buffer, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// date1904Offset is 1904-01-01 in the 1900 date system, day 0 in the 1904 one.
const date1904Offset = 1462

// DateSerial returns the 1900-system serial day number of t's calendar date.
func DateSerial(t time.Time) float64 {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return float64(day.Sub(excelEpoch) / (24 * time.Hour))
}
