package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Subtype separates advances from ordinary transactions.
type Subtype string

const (
	SubtypeGeneric    Subtype = "generic"
	SubtypeAdvanceIn  Subtype = "advance_in"
	SubtypeAdvanceOut Subtype = "advance_out"
)

// TransactionRecord is one categorized ledger entry. Records are treated as
// immutable values once constructed.
type TransactionRecord struct {
	Kind          Kind
	Subtype       Subtype
	Category      string
	Counterparty  string
	Description   string
	Amount        decimal.Decimal
	OccurredAt    time.Time
	ReceiptNumber string
}

// ProjectMeta identifies the report being produced.
type ProjectMeta struct {
	Name     string
	Reporter string
}

// ParseKind parses a transaction kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("invalid kind %q", s)
	}
}

// ParseSubtype parses a transaction subtype; empty means generic.
func ParseSubtype(s string) (Subtype, error) {
	switch Subtype(strings.ToLower(strings.TrimSpace(s))) {
	case "", SubtypeGeneric:
		return SubtypeGeneric, nil
	case SubtypeAdvanceIn:
		return SubtypeAdvanceIn, nil
	case SubtypeAdvanceOut:
		return SubtypeAdvanceOut, nil
	default:
		return "", fmt.Errorf("invalid subtype %q", s)
	}
}

// NormalizeCategory upper-cases a category label, keeping its diacritics.
func NormalizeCategory(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006",
}

// ParseOccurredAt accepts the timestamp layouts found in exported ledgers.
func ParseOccurredAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// RecordFields is the string form of a record as stored by the sources.
type RecordFields struct {
	Kind          string
	Subtype       string
	Category      string
	Counterparty  string
	Description   string
	Amount        string
	OccurredAt    string
	ReceiptNumber string
}

// Record converts stored fields into a TransactionRecord.
func (f RecordFields) Record() (TransactionRecord, error) {
	kind, err := ParseKind(f.Kind)
	if err != nil {
		return TransactionRecord{}, err
	}
	subtype, err := ParseSubtype(f.Subtype)
	if err != nil {
		return TransactionRecord{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("%w: %q", ErrMalformedAmount, f.Amount)
	}
	at, err := ParseOccurredAt(f.OccurredAt)
	if err != nil {
		return TransactionRecord{}, err
	}
	return TransactionRecord{
		Kind:          kind,
		Subtype:       subtype,
		Category:      NormalizeCategory(f.Category),
		Counterparty:  strings.TrimSpace(f.Counterparty),
		Description:   strings.TrimSpace(f.Description),
		Amount:        amount,
		OccurredAt:    at,
		ReceiptNumber: strings.TrimSpace(f.ReceiptNumber),
	}, nil
}
