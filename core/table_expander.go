package core

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
	"github.com/xuri/excelize/v2"
)

// TableRegion is a fixed-capacity detail region followed by its total row.
type TableRegion struct {
	Sheet      string
	StartRow   int
	Capacity   int
	TotalRow   int
	TotalFound bool
	LabelCol   int
	AmountCol  int
}

// EndRow is the last detail row of the region.
func (r TableRegion) EndRow() int {
	return r.StartRow + r.Capacity - 1
}

// TableResult describes one filled aggregate table.
type TableResult struct {
	Region TableRegion
	Groups int // distinct keys before folding
	Rows   int // rows written
	Extra  int // rows inserted
	Folded bool
}

// TableExpander fills an aggregate table, growing or folding it to fit.
type TableExpander struct {
	wb     *Workbook
	cfg    *config.TableConfig
	logger *slog.Logger
}

// NewTableExpander creates a TableExpander. A nil logger uses slog.Default().
func NewTableExpander(wb *Workbook, cfg *config.TableConfig, logger *slog.Logger) *TableExpander {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableExpander{wb: wb, cfg: cfg, logger: logger}
}

// Locate resolves the table region. With a total marker configured, the label
// column is scanned from the start row for it; when absent, or without a
// marker, the configured fallback total row is used.
func (e *TableExpander) Locate() (TableRegion, error) {
	labelCol, err := excelize.ColumnNameToNumber(e.cfg.LabelColumn)
	if err != nil {
		return TableRegion{}, err
	}
	amountCol, err := excelize.ColumnNameToNumber(e.cfg.AmountColumn)
	if err != nil {
		return TableRegion{}, err
	}
	region := TableRegion{
		Sheet:     e.cfg.Sheet,
		StartRow:  e.cfg.StartRow,
		TotalRow:  e.cfg.FallbackTotalRow,
		LabelCol:  labelCol,
		AmountCol: amountCol,
	}

	if e.cfg.TotalMarker == "" {
		region.TotalFound = true
	} else {
		rowCount, err := e.wb.RowCount(e.cfg.Sheet)
		if err != nil {
			return region, err
		}
		marker := FoldText(e.cfg.TotalMarker)
		for r := e.cfg.StartRow; r <= rowCount; r++ {
			if FoldText(e.wb.Text(e.cfg.Sheet, r, labelCol)) == marker {
				region.TotalRow, region.TotalFound = r, true
				break
			}
		}
		if !region.TotalFound {
			e.logger.Warn("Total row not found, using fallback",
				"table", e.cfg.Name, "sheet", e.cfg.Sheet, "row", region.TotalRow, "error", ErrTotalRowNotFound)
		}
	}

	region.Capacity = e.cfg.Capacity
	if region.Capacity == 0 {
		region.Capacity = region.TotalRow - region.StartRow
	}
	if region.Capacity < 1 {
		return region, fmt.Errorf("table '%s' has no detail rows between row %d and total row %d",
			e.cfg.Name, region.StartRow, region.TotalRow)
	}
	return region, nil
}

// Fill groups set by counterparty and writes it into the table. Bounded
// tables keep the largest capacity-1 groups and fold the rest into one
// "other" row; unbounded tables insert rows before the total row instead.
func (e *TableExpander) Fill(set *TransactionSet) (TableResult, error) {
	region, err := e.Locate()
	if err != nil {
		return TableResult{}, err
	}
	groups := set.GroupByCounterparty(e.cfg.UnnamedLabel)
	res := TableResult{Region: region, Groups: len(groups)}

	if e.cfg.Bounded {
		groups = FoldOther(groups, region.Capacity, e.cfg.OtherLabel)
		res.Folded = len(groups) < res.Groups
	} else {
		res.Extra = max(0, len(groups)-region.Capacity)
	}

	if res.Extra > 0 {
		if err := e.insertRows(region, res.Extra); err != nil {
			return res, err
		}
	}
	if err := e.RewriteDependentFormulas(region, res.Extra); err != nil {
		return res, err
	}

	for i := 0; i < region.Capacity+res.Extra; i++ {
		r := region.StartRow + i
		if i >= len(groups) {
			if err := e.clearRow(region, r); err != nil {
				return res, err
			}
			continue
		}
		if err := e.wb.SetText(region.Sheet, r, region.LabelCol, groups[i].Label); err != nil {
			return res, err
		}
		if err := e.wb.SetNumber(region.Sheet, r, region.AmountCol, groups[i].Amount.InexactFloat64()); err != nil {
			return res, err
		}
		res.Rows++
	}

	e.logger.Debug("Table Filled",
		"table", e.cfg.Name,
		"sheet", region.Sheet,
		"groups", res.Groups,
		"rows", res.Rows,
		"extra", res.Extra,
		"folded", res.Folded,
	)
	return res, nil
}

// insertRows inserts extra rows before the total row and gives each the
// formatting of the last original detail row.
func (e *TableExpander) insertRows(region TableRegion, extra int) error {
	if err := e.wb.InsertRows(region.Sheet, region.TotalRow, extra); err != nil {
		return err
	}
	lastCol := e.wb.ColumnCount(region.Sheet)
	for r := region.TotalRow; r < region.TotalRow+extra; r++ {
		if err := e.wb.CloneRow(region.Sheet, region.EndRow(), r, lastCol, false); err != nil {
			return fmt.Errorf("failed to format inserted row %d: %w", r, err)
		}
	}
	return nil
}

func (e *TableExpander) clearRow(region TableRegion, r int) error {
	if err := e.wb.Clear(region.Sheet, r, region.LabelCol); err != nil {
		return err
	}
	return e.wb.Clear(region.Sheet, r, region.AmountCol)
}

// RewriteDependentFormulas is the one place that rewrites the formulas this
// table owns: its total, which sums the whole (possibly grown) region, and
// every configured dependent formula. Dependent cells on the table's sheet at
// or below the original total row follow the inserted rows.
func (e *TableExpander) RewriteDependentFormulas(region TableRegion, extra int) error {
	endRow := region.EndRow() + extra
	totalRow := region.TotalRow + extra
	amountColName, err := excelize.ColumnNumberToName(region.AmountCol)
	if err != nil {
		return err
	}
	if err := e.wb.SetFormula(region.Sheet, totalRow, region.AmountCol,
		SumFormula(amountColName, region.StartRow, endRow)); err != nil {
		return fmt.Errorf("failed to rewrite total of '%s': %w", e.cfg.Name, err)
	}

	params := map[string]string{
		"start_row": strconv.Itoa(region.StartRow),
		"end_row":   strconv.Itoa(endRow),
		"total_row": strconv.Itoa(totalRow),
		"extra":     strconv.Itoa(extra),
	}
	for _, dep := range e.cfg.Dependents {
		if !e.wb.HasSheet(dep.Sheet) {
			e.logger.Warn("Dependent formula sheet missing",
				"table", e.cfg.Name, "sheet", dep.Sheet, "cell", dep.Cell, "error", ErrSheetMissing)
			continue
		}
		col, row, err := excelize.CellNameToCoordinates(dep.Cell)
		if err != nil {
			return fmt.Errorf("dependent cell '%s': %w", dep.Cell, err)
		}
		if dep.Sheet == region.Sheet && row >= region.TotalRow {
			row += extra
		}
		if err := e.wb.SetFormula(dep.Sheet, row, col, replacePlaceholders(dep.Formula, params)); err != nil {
			return fmt.Errorf("failed to rewrite %s!%s: %w", dep.Sheet, dep.Cell, err)
		}
	}
	return nil
}
