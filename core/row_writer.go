package core

import (
	"fmt"
	"log/slog"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
)

// SheetResult describes what RowWriter did to one category sheet.
type SheetResult struct {
	Sheet        string
	HeaderRow    int
	HeaderFound  bool
	Columns      ColumnMap
	TotalRow     int // 0 when the sheet has no total row below its header
	RowsWritten  int
	RowsInserted int
	RowsAppended int
}

// RowWriter fills the detail table of a category sheet.
type RowWriter struct {
	wb     *Workbook
	header *config.HeaderConfig
	logger *slog.Logger
}

// NewRowWriter creates a RowWriter. A nil logger uses slog.Default().
func NewRowWriter(wb *Workbook, header *config.HeaderConfig, logger *slog.Logger) *RowWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowWriter{wb: wb, header: header, logger: logger}
}

type pendingCell struct {
	col   int
	value CellValue
}

// pendingRow stages the mapped cells of one detail row until commit.
type pendingRow struct {
	row   int
	cells []pendingCell
}

func (p *pendingRow) set(col int, v CellValue) {
	if col > 0 {
		p.cells = append(p.cells, pendingCell{col: col, value: v})
	}
}

func (p *pendingRow) commit(wb *Workbook, sheet string) error {
	for _, c := range p.cells {
		var err error
		switch c.value.Kind {
		case ValueText:
			err = wb.SetText(sheet, p.row, c.col, c.value.Text)
		case ValueNumber:
			err = wb.SetNumber(sheet, p.row, c.col, c.value.Number)
		default:
			err = wb.Clear(sheet, p.row, c.col)
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", cellName(p.row, c.col), err)
		}
	}
	p.cells = p.cells[:0]
	return nil
}

// WriteSheet writes one row per record, in ascending time order, starting
// under the located header. Only the mapped columns are written.
func (w *RowWriter) WriteSheet(sheet string, records []TransactionRecord) (SheetResult, error) {
	res := SheetResult{Sheet: sheet}

	headerRow, found, err := LocateHeader(w.wb, sheet, w.header)
	if err != nil {
		return res, err
	}
	if !found {
		w.logger.Warn("Header row not found, using fallback",
			"sheet", sheet, "row", headerRow, "error", ErrHeaderNotFound)
	}
	res.HeaderRow, res.HeaderFound = headerRow, found
	res.Columns = MapColumns(w.wb, sheet, headerRow, w.header)

	start := headerRow + 1
	rowCount, err := w.wb.RowCount(sheet)
	if err != nil {
		return res, err
	}
	lastCol := w.wb.ColumnCount(sheet)
	res.TotalRow = w.findTotalRow(sheet, start, rowCount, lastCol)

	sorted := (&TransactionSet{Records: records}).SortedByTime()

	if res.TotalRow > 0 {
		if res.RowsInserted, err = w.growBeforeTotal(sheet, start, res.TotalRow, len(sorted), lastCol); err != nil {
			return res, err
		}
		res.TotalRow += res.RowsInserted
	}

	p := &pendingRow{}
	for i, rec := range sorted {
		r := start + i
		if res.TotalRow == 0 && r > rowCount {
			if r-1 >= start {
				if err := w.wb.CloneRow(sheet, r-1, r, lastCol, true); err != nil {
					return res, fmt.Errorf("failed to clone row %d of '%s': %w", r-1, sheet, err)
				}
			}
			res.RowsAppended++
		}

		p.row = r
		p.set(res.Columns.Date, NumberValue(w.wb.DateSerial(rec.OccurredAt)))
		if rec.ReceiptNumber != "" {
			p.set(res.Columns.ReceiptNo, TextValue(rec.ReceiptNumber))
		}
		p.set(res.Columns.Amount, NumberValue(rec.Amount.InexactFloat64()))
		p.set(res.Columns.Description, TextValue(rec.Description))
		if err := p.commit(w.wb, sheet); err != nil {
			return res, fmt.Errorf("sheet '%s': %w", sheet, err)
		}
		res.RowsWritten++
	}

	w.logger.Debug("Sheet Filled",
		"sheet", sheet,
		"headerRow", headerRow,
		"columns", res.Columns,
		"rows", res.RowsWritten,
		"inserted", res.RowsInserted,
		"appended", res.RowsAppended,
	)
	return res, nil
}

// findTotalRow returns the first row below the header holding a total marker
// label, or 0.
func (w *RowWriter) findTotalRow(sheet string, start, rowCount, lastCol int) int {
	for r := start; r <= rowCount; r++ {
		for col := 1; col <= lastCol; col++ {
			text := FoldText(w.wb.Text(sheet, r, col))
			if text != "" && equalsAny(text, w.header.TotalMarkers) {
				return r
			}
		}
	}
	return 0
}

// growBeforeTotal inserts rows before totalRow until the region above it can
// hold n rows, then extends the total row's ranges over the new rows.
func (w *RowWriter) growBeforeTotal(sheet string, start, totalRow, n, lastCol int) (int, error) {
	extra := n - (totalRow - start)
	if extra <= 0 {
		return 0, nil
	}
	if err := w.wb.InsertRows(sheet, totalRow, extra); err != nil {
		return 0, err
	}
	lastDetail := totalRow - 1
	if lastDetail >= start {
		for r := totalRow; r < totalRow+extra; r++ {
			if err := w.wb.CloneRow(sheet, lastDetail, r, lastCol, true); err != nil {
				return 0, fmt.Errorf("failed to clone row %d of '%s': %w", lastDetail, sheet, err)
			}
		}
	}

	newTotal := totalRow + extra
	for col := 1; col <= lastCol; col++ {
		formula, err := w.wb.Formula(sheet, newTotal, col)
		if err != nil || formula == "" {
			continue
		}
		if updated := ExtendRangeEnd(formula, sheet, lastDetail, lastDetail+extra); updated != formula {
			if err := w.wb.SetFormula(sheet, newTotal, col, updated); err != nil {
				return 0, err
			}
		}
	}
	return extra, nil
}
