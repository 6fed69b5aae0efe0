package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
)

// TemplateLoader opens report templates from the local disk or from S3. It
// only ever reads: templates are shared by every export.
type TemplateLoader struct {
	// S3 serves "s3://bucket/key" locations; nil disables them.
	S3 *S3Store
}

// Open returns a reader for the template at location.
func (l *TemplateLoader) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "s3://") {
		bucket, key, ok := parseS3URL(location)
		if !ok {
			return nil, fmt.Errorf("%w: invalid s3 location '%s'", ErrTemplateUnreadable, location)
		}
		if l.S3 == nil {
			return nil, fmt.Errorf("%w: no s3 client configured for '%s'", ErrTemplateUnreadable, location)
		}
		body, err := l.S3.Open(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplateUnreadable, err)
		}
		return body, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnreadable, err)
	}
	return f, nil
}

// ValidateTemplate checks the workbook against the report contract. A
// missing summary or advances sheet is an error; missing category sheets are
// returned so the caller can report them.
func ValidateTemplate(wb *Workbook, rc *config.ReportConfig) (missingCategories []string, err error) {
	for _, sheet := range []string{rc.Summary.Sheet, rc.Received.Sheet, rc.Given.Sheet} {
		if !wb.HasSheet(sheet) {
			return nil, fmt.Errorf("%w: %w: %s", ErrTemplateUnreadable, ErrSheetMissing, sheet)
		}
	}
	seen := make(map[string]bool)
	for _, c := range rc.Categories {
		if seen[c.Sheet] {
			continue
		}
		seen[c.Sheet] = true
		if !wb.HasSheet(c.Sheet) {
			missingCategories = append(missingCategories, c.Sheet)
		}
	}
	return missingCategories, nil
}
