package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SkippedCategory reports records that could not be placed on any sheet.
type SkippedCategory struct {
	Category string
	Sheet    string
	Records  int
	Amount   decimal.Decimal
	Reason   error
}

// ExportStats summarises one export.
type ExportStats struct {
	Sheets           []SheetResult
	Received         TableResult
	Given            TableResult
	MalformedAmounts int
	IncomeIgnored    int
}

// Report is a generated workbook plus what happened while building it.
type Report struct {
	Data     []byte
	Filename string
	Skipped  []SkippedCategory
	Stats    ExportStats
}

type Generator struct {
	Context *ExportContext
}

func NewGenerator(ctx *ExportContext) *Generator {
	return &Generator{Context: ctx}
}

func replacePlaceholders(input string, params map[string]string) string {
	output := input
	for k, v := range params {
		placeholder := fmt.Sprintf("${%s}", k)
		output = strings.ReplaceAll(output, placeholder, v)
	}
	return output
}

func cloneParams(params map[string]string) map[string]string {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return copied
}

// Generate loads the configured template and builds the report.
func (g *Generator) Generate(ctx context.Context, txs []TransactionRecord, meta ProjectMeta) (report *Report, err error) {
	loader := g.Context.Templates
	if loader == nil {
		loader = &TemplateLoader{}
	}
	r, err := loader.Open(ctx, g.Context.Config.Template)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close template: %w", closeErr)
			} else {
				err = fmt.Errorf("%w; (cleanup error: %v)", err, closeErr)
			}
		}
	}()
	return g.GenerateReport(ctx, r, txs, meta)
}

// GenerateReport fills the template read from template with txs. The
// template source is only read. Only ErrTemplateUnreadable conditions fail
// the export; everything else is recovered and reported on the Report.
func (g *Generator) GenerateReport(ctx context.Context, template io.Reader, txs []TransactionRecord, meta ProjectMeta) (report *Report, err error) {
	rc := g.Context.Config
	logger := g.Context.logger()

	wb, err := OpenWorkbook(template)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := wb.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close workbook: %w", closeErr)
			} else {
				err = fmt.Errorf("%w; (cleanup error: %v)", err, closeErr)
			}
		}
	}()

	missing, err := ValidateTemplate(wb, rc)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		logger.Warn("Template lacks category sheets", "sheets", missing)
	}

	report = &Report{}
	set, malformed := NewTransactionSet(txs)
	report.Stats.MalformedAmounts = len(malformed)
	for _, m := range malformed {
		logger.Debug("Record excluded", "category", m.Category, "amount", m.Amount.String(), "error", ErrMalformedAmount)
	}

	if err := g.writeAnchors(wb, meta); err != nil {
		return nil, err
	}

	report.Stats.IncomeIgnored = set.Filter(KindIncome, SubtypeGeneric).Len()
	if report.Stats.IncomeIgnored > 0 {
		logger.Debug("Income records not exported", "count", report.Stats.IncomeIgnored)
	}
	bySheet, skipped := g.routeExpenses(wb, set.Filter(KindExpense, SubtypeGeneric))
	report.Skipped = skipped
	for _, s := range skipped {
		logger.Warn("Category skipped",
			"category", s.Category, "records", s.Records, "amount", s.Amount.String(), "error", s.Reason)
	}

	writer := NewRowWriter(wb, &rc.Header, logger)
	for _, sheet := range wb.Sheets() {
		records, ok := bySheet[sheet]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := writer.WriteSheet(sheet, records)
		if err != nil {
			return nil, fmt.Errorf("processing sheet %s: %w", sheet, err)
		}
		report.Stats.Sheets = append(report.Stats.Sheets, res)
	}

	received := NewTableExpander(wb, &rc.Received, logger)
	if report.Stats.Received, err = received.Fill(set.Filter("", SubtypeAdvanceIn)); err != nil {
		return nil, fmt.Errorf("processing table %s: %w", rc.Received.Name, err)
	}
	given := NewTableExpander(wb, &rc.Given, logger)
	if report.Stats.Given, err = given.Fill(set.Filter("", SubtypeAdvanceOut)); err != nil {
		return nil, fmt.Errorf("processing table %s: %w", rc.Given.Name, err)
	}

	// UX: open on the summary with the cursor at A1.
	_ = wb.Activate(rc.Summary.Sheet, "A1")

	buf, err := wb.Serialize()
	if err != nil {
		return nil, err
	}
	report.Data = buf.Bytes()
	report.Filename = g.Filename(meta)
	return report, nil
}

// writeAnchors fills the fixed summary cells. The reporter cell is left as
// authored when no reporter is given.
func (g *Generator) writeAnchors(wb *Workbook, meta ProjectMeta) error {
	summary := g.Context.Config.Summary
	anchors := summary.Anchors
	set := func(ref string, write func(row, col int) error) error {
		if ref == "" {
			return nil
		}
		col, row, err := parseCell(ref)
		if err != nil {
			return err
		}
		if err := write(row, col); err != nil {
			return fmt.Errorf("failed to write anchor %s!%s: %w", summary.Sheet, ref, err)
		}
		return nil
	}

	if err := set(anchors.ProjectName, func(row, col int) error {
		return wb.SetText(summary.Sheet, row, col, meta.Name)
	}); err != nil {
		return err
	}
	if err := set(anchors.GeneratedAt, func(row, col int) error {
		return wb.SetDate(summary.Sheet, row, col, g.Context.Now)
	}); err != nil {
		return err
	}
	if meta.Reporter == "" {
		return nil
	}
	return set(anchors.Reporter, func(row, col int) error {
		return wb.SetText(summary.Sheet, row, col, meta.Reporter)
	})
}

// routeExpenses groups records by target sheet. Records whose category has
// no routing entry still land on a sheet literally named after the category
// when the template has one, unless that sheet holds the summary or an
// advances table; all others are reported as skipped.
func (g *Generator) routeExpenses(wb *Workbook, expenses *TransactionSet) (map[string][]TransactionRecord, []SkippedCategory) {
	rc := g.Context.Config
	router := NewSheetRouter(rc.Categories)
	reserved := map[string]bool{
		NormalizeCategory(rc.Summary.Sheet):  true,
		NormalizeCategory(rc.Received.Sheet): true,
		NormalizeCategory(rc.Given.Sheet):    true,
	}
	bySheet := make(map[string][]TransactionRecord)
	skipped := make(map[string]*SkippedCategory)

	for _, rec := range expenses.Records {
		sheet, err := router.Route(rec.Category)
		var unmapped *UnmappedCategoryError
		if errors.As(err, &unmapped) && wb.HasSheet(sheet) && !reserved[sheet] {
			err = nil
		}
		if err == nil && !wb.HasSheet(sheet) {
			err = fmt.Errorf("%w: %s", ErrSheetMissing, sheet)
		}
		if err == nil {
			bySheet[sheet] = append(bySheet[sheet], rec)
			continue
		}

		s, ok := skipped[rec.Category]
		if !ok {
			s = &SkippedCategory{Category: rec.Category, Sheet: sheet, Amount: decimal.Zero, Reason: err}
			skipped[rec.Category] = s
		}
		s.Records++
		s.Amount = s.Amount.Add(rec.Amount)
	}

	out := make([]SkippedCategory, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return bySheet, out
}

// Filename renders the configured file name pattern for meta.
func (g *Generator) Filename(meta ProjectMeta) string {
	params := cloneParams(g.Context.Parameters)
	params["project"] = sanitizeFilename(meta.Name)
	name := replacePlaceholders(g.Context.Config.Filename, params)
	if filepath.Ext(name) == "" {
		name += ".xlsx"
	}
	return name
}

// WriteReport saves report under outputRoot, in the configured output
// directory, and returns the file path.
func (g *Generator) WriteReport(report *Report, outputRoot string) (string, error) {
	dir := replacePlaceholders(g.Context.Config.OutputDir, g.Context.Parameters)
	outputPath := filepath.Join(outputRoot, dir, report.Filename)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, report.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to save output: %w", err)
	}
	return outputPath, nil
}
