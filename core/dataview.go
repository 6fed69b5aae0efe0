package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionSet is a filterable view over the records of one export.
type TransactionSet struct {
	Records []TransactionRecord
}

// NewTransactionSet creates a new TransactionSet instance.
// Records with a negative amount cannot be written and are returned separately.
func NewTransactionSet(records []TransactionRecord) (*TransactionSet, []TransactionRecord) {
	var kept, malformed []TransactionRecord
	for _, r := range records {
		if r.Amount.IsNegative() {
			malformed = append(malformed, r)
			continue
		}
		kept = append(kept, r)
	}
	return &TransactionSet{Records: kept}, malformed
}

// Filter returns the records matching kind and subtype. An empty kind matches both.
func (s *TransactionSet) Filter(kind Kind, subtype Subtype) *TransactionSet {
	var filtered []TransactionRecord
	for _, r := range s.Records {
		if kind != "" && r.Kind != kind {
			continue
		}
		if r.Subtype != subtype {
			continue
		}
		filtered = append(filtered, r)
	}
	return &TransactionSet{Records: filtered}
}

// SortedByTime returns a copy ordered by ascending timestamp; equal timestamps keep input order.
func (s *TransactionSet) SortedByTime() []TransactionRecord {
	out := make([]TransactionRecord, len(s.Records))
	copy(out, s.Records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out
}

// Len returns the number of records.
func (s *TransactionSet) Len() int {
	return len(s.Records)
}

// Group is one aggregated table line.
type Group struct {
	Label  string
	Amount decimal.Decimal
	Count  int
}

// GroupByCounterparty sums amounts per counterparty and sorts by descending amount.
// Ties are ordered by label so the output does not depend on input order.
func (s *TransactionSet) GroupByCounterparty(unnamed string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range s.Records {
		label := strings.TrimSpace(r.Counterparty)
		if label == "" {
			label = unnamed
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(r.Amount)
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Amount.Cmp(groups[j].Amount); c != 0 {
			return c > 0
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// FoldOther keeps the first capacity-1 groups and sums the rest into one
// group labelled other, so the result never exceeds capacity.
func FoldOther(groups []Group, capacity int, other string) []Group {
	if capacity < 1 || len(groups) <= capacity {
		return groups
	}
	out := make([]Group, 0, capacity)
	out = append(out, groups[:capacity-1]...)
	rest := Group{Label: other, Amount: decimal.Zero}
	for _, g := range groups[capacity-1:] {
		rest.Amount = rest.Amount.Add(g.Amount)
		rest.Count += g.Count
	}
	return append(out, rest)
}
