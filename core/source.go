package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// TransactionSource loads the ledger of one project.
type TransactionSource interface {
	Fetch(ctx context.Context, project string) ([]TransactionRecord, error)
}

// decodeRecords converts stored rows. Rows with an unusable amount are left
// out and logged; any other decoding problem fails the load.
func decodeRecords(source string, rows []RecordFields) ([]TransactionRecord, error) {
	records := make([]TransactionRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.Record()
		if errors.Is(err, ErrMalformedAmount) {
			slog.Warn("Record excluded", "source", source, "row", i+1, "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
