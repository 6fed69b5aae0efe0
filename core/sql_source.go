package core

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLTransactionSource reads transactions from a table of a SQL database
// (MySQL, PostgreSQL or SQLite).
type SQLTransactionSource struct {
	DB         *sql.DB
	DriverName string // "mysql", "postgres" or "sqlite3"
	Table      string
}

// NewSQLTransactionSource creates a new source.
func NewSQLTransactionSource(db *sql.DB, driverName, table string) *SQLTransactionSource {
	return &SQLTransactionSource{
		DB:         db,
		DriverName: driverName,
		Table:      table,
	}
}

// query builds the select for the table. The table name cannot be bound as
// a parameter, so it is checked against a plain identifier pattern.
func (s *SQLTransactionSource) query() (string, error) {
	if !tableNameRegex.MatchString(s.Table) {
		return "", fmt.Errorf("invalid table name %q", s.Table)
	}
	placeholder := "?"
	if s.DriverName == "postgres" {
		placeholder = "$1"
	}
	return fmt.Sprintf(
		"SELECT kind, subtype, category, counterparty, description, amount, occurred_at, receipt_number FROM %s WHERE project = %s ORDER BY occurred_at",
		s.Table, placeholder), nil
}

// Fetch selects the rows of project ordered by time.
func (s *SQLTransactionSource) Fetch(ctx context.Context, project string) ([]TransactionRecord, error) {
	query, err := s.query()
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, query, project)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var fields []RecordFields
	for rows.Next() {
		values := make([]interface{}, 8)
		valuePtrs := make([]interface{}, len(values))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		fields = append(fields, RecordFields{
			Kind:          asString(values[0]),
			Subtype:       asString(values[1]),
			Category:      asString(values[2]),
			Counterparty:  asString(values[3]),
			Description:   asString(values[4]),
			Amount:        asString(values[5]),
			OccurredAt:    asString(values[6]),
			ReceiptNumber: asString(values[7]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return decodeRecords(s.Table, fields)
}

// asString normalizes a scanned column. Drivers return text as []byte and
// timestamps as time.Time.
func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
