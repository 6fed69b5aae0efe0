package config

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Validator validates the configuration objects.
type Validator struct {
	Provider Provider
}

// NewValidator creates a new Validator.
func NewValidator(provider Provider) *Validator {
	return &Validator{Provider: provider}
}

// ValidateReport validates the ReportConfig.
func (v *Validator) ValidateReport(rc *ReportConfig) error {
	if rc.Name == "" {
		return fmt.Errorf("report name is required")
	}
	if rc.Template == "" {
		return fmt.Errorf("report template is required")
	}
	if rc.Filename == "" {
		return fmt.Errorf("report filename pattern is required")
	}
	if err := v.ValidateSummary(&rc.Summary); err != nil {
		return fmt.Errorf("summary error: %w", err)
	}
	if err := v.ValidateTable(&rc.Received); err != nil {
		return fmt.Errorf("received table error: %w", err)
	}
	if err := v.ValidateTable(&rc.Given); err != nil {
		return fmt.Errorf("given table error: %w", err)
	}
	if err := v.ValidateHeader(&rc.Header); err != nil {
		return fmt.Errorf("header error: %w", err)
	}
	if len(rc.Categories) == 0 {
		return fmt.Errorf("report must have at least one category")
	}

	seen := make(map[string]*CategoryConfig)
	for i := range rc.Categories {
		cat := &rc.Categories[i]
		if err := v.ValidateCategory(cat); err != nil {
			return fmt.Errorf("category %d error: %w", i, err)
		}
		// Routing matches both the upper-cased and the folded form, so a
		// collision in either sends records to whichever sheet was indexed last.
		for _, alias := range append([]string{cat.Name, cat.Sheet}, cat.Aliases...) {
			for _, key := range []string{strings.ToUpper(strings.TrimSpace(alias)), FoldKey(alias)} {
				if key == "" {
					continue
				}
				if owner, dup := seen[key]; dup && owner.Sheet != cat.Sheet {
					return fmt.Errorf("alias '%s' is shared by categories '%s' and '%s'", key, owner.Name, cat.Name)
				}
				seen[key] = cat
			}
		}
	}

	for i := range rc.DataSources {
		if err := v.ValidateDataSource(&rc.DataSources[i]); err != nil {
			return fmt.Errorf("data source %d error: %w", i, err)
		}
	}
	return nil
}

// ValidateSummary validates the SummaryConfig.
func (v *Validator) ValidateSummary(s *SummaryConfig) error {
	if s.Sheet == "" {
		return fmt.Errorf("summary sheet is required")
	}
	for name, ref := range map[string]string{
		"projectName": s.Anchors.ProjectName,
		"generatedAt": s.Anchors.GeneratedAt,
		"reporter":    s.Anchors.Reporter,
	} {
		if ref == "" {
			continue
		}
		if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
			return fmt.Errorf("anchor '%s' has invalid cell '%s'", name, ref)
		}
	}
	return nil
}

// ValidateTable validates the TableConfig.
func (v *Validator) ValidateTable(t *TableConfig) error {
	if t.Sheet == "" {
		return fmt.Errorf("table '%s' sheet is required", t.Name)
	}
	if t.StartRow < 1 {
		return fmt.Errorf("table '%s' start row must be positive", t.Name)
	}
	if t.FallbackTotalRow <= t.StartRow {
		return fmt.Errorf("table '%s' fallback total row must be below the start row", t.Name)
	}
	if t.Capacity < 0 {
		return fmt.Errorf("table '%s' capacity must not be negative", t.Name)
	}
	if t.Bounded {
		if t.Capacity < 2 {
			return fmt.Errorf("bounded table '%s' requires a capacity of at least 2", t.Name)
		}
		if t.OtherLabel == "" {
			return fmt.Errorf("bounded table '%s' requires an other label", t.Name)
		}
	}
	for _, col := range []string{t.LabelColumn, t.AmountColumn} {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			return fmt.Errorf("table '%s' has invalid column '%s'", t.Name, col)
		}
	}
	for i, dep := range t.Dependents {
		if dep.Sheet == "" {
			return fmt.Errorf("table '%s' dependent %d sheet is required", t.Name, i)
		}
		if _, _, err := excelize.CellNameToCoordinates(dep.Cell); err != nil {
			return fmt.Errorf("table '%s' dependent %d has invalid cell '%s'", t.Name, i, dep.Cell)
		}
		if dep.Formula == "" {
			return fmt.Errorf("table '%s' dependent %d formula is required", t.Name, i)
		}
	}
	return nil
}

// ValidateHeader validates the HeaderConfig.
func (v *Validator) ValidateHeader(h *HeaderConfig) error {
	if h.ScanLimit < 1 {
		return fmt.Errorf("header scan limit must be positive")
	}
	if h.FallbackRow < 1 {
		return fmt.Errorf("header fallback row must be positive")
	}
	if len(h.DateTokens) == 0 {
		return fmt.Errorf("header requires date tokens")
	}
	if len(h.AmountTokens) == 0 {
		return fmt.Errorf("header requires amount tokens")
	}
	if h.FallbackDateColumn < 1 || h.FallbackAmountColumn < 1 || h.FallbackDescriptionColumn < 1 {
		return fmt.Errorf("header fallback columns must be positive")
	}
	return nil
}

// ValidateCategory validates the CategoryConfig.
func (v *Validator) ValidateCategory(c *CategoryConfig) error {
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if c.Sheet == "" {
		return fmt.Errorf("category '%s' sheet is required", c.Name)
	}
	return nil
}

// ValidateDataSource validates the DataSourceConfig.
func (v *Validator) ValidateDataSource(ds *DataSourceConfig) error {
	if ds.Name == "" {
		return fmt.Errorf("data source name is required")
	}
	switch ds.Driver {
	case "csv":
		if ds.Dir == "" {
			return fmt.Errorf("data source '%s' dir is required", ds.Name)
		}
	case "mysql", "postgres", "sqlite3":
		if ds.DSN == "" {
			return fmt.Errorf("data source '%s' DSN is required", ds.Name)
		}
	case "dynamodb":
		if ds.Table == "" {
			return fmt.Errorf("data source '%s' table is required", ds.Name)
		}
	case "":
		return fmt.Errorf("data source '%s' driver is required", ds.Name)
	default:
		return fmt.Errorf("data source '%s' has unsupported driver '%s'", ds.Name, ds.Driver)
	}
	return nil
}

// ValidateSourceRef checks that a named data source is known to the provider.
func (v *Validator) ValidateSourceRef(name string) error {
	if v.Provider == nil {
		return nil
	}
	if _, err := v.Provider.GetDataSourceConfig(name); err != nil {
		return fmt.Errorf("unknown DataSource '%s'", name)
	}
	return nil
}
