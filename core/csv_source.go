package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CsvTransactionSource reads <RootDir>/<project>.csv. The header row names
// the columns; a "project" column, when present, filters the rows.
type CsvTransactionSource struct {
	RootDir string
}

func NewCsvTransactionSource(rootDir string) *CsvTransactionSource {
	return &CsvTransactionSource{RootDir: rootDir}
}

func (s *CsvTransactionSource) Fetch(ctx context.Context, project string) ([]TransactionRecord, error) {
	filePath := filepath.Join(s.RootDir, project+".csv")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv content: %w", err)
	}
	if len(records) < 1 {
		return nil, nil
	}

	index := make(map[string]int)
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		if i, ok := index[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var rows []RecordFields
	for _, row := range records[1:] {
		if p, ok := index["project"]; ok && p < len(row) && row[p] != project {
			continue
		}
		rows = append(rows, RecordFields{
			Kind:          field(row, "kind"),
			Subtype:       field(row, "subtype"),
			Category:      field(row, "category"),
			Counterparty:  field(row, "counterparty"),
			Description:   field(row, "description"),
			Amount:        field(row, "amount"),
			OccurredAt:    field(row, "occurred_at"),
			ReceiptNumber: field(row, "receipt_number"),
		})
	}
	return decodeRecords(filePath, rows)
}
