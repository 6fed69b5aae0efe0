package core

import (
	"errors"
	"fmt"
)

// Export errors. Only ErrTemplateUnreadable aborts an export; the others are
// recovered and reported so a best-effort workbook is always produced.
var (
	ErrTemplateUnreadable = errors.New("template unreadable")
	ErrSheetMissing       = errors.New("sheet missing from template")
	ErrHeaderNotFound     = errors.New("header row not found")
	ErrTotalRowNotFound   = errors.New("total row not found")
	ErrMalformedAmount    = errors.New("malformed amount")
)

// UnmappedCategoryError reports a category that has no entry in the sheet routing table.
type UnmappedCategoryError struct {
	Category string
}

func (e *UnmappedCategoryError) Error() string {
	return fmt.Sprintf("unmapped category %q", e.Category)
}
