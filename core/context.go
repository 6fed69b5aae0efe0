package core

import (
	"log/slog"
	"strings"
	"time"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
)

// ExportContext holds the state shared by one export run.
type ExportContext struct {
	Config     *config.ReportConfig
	Parameters map[string]string
	// Now is the generation time written to the summary sheet and used for
	// dynamic date parameters.
	Now       time.Time
	Logger    *slog.Logger
	Templates *TemplateLoader
}

// NewExportContext creates a new context. Run parameters override the
// report's own; "$date:" expressions are resolved against now.
func NewExportContext(rc *config.ReportConfig, params map[string]string, now time.Time) *ExportContext {
	mergedParams := make(map[string]string)
	for k, v := range rc.Parameters {
		mergedParams[k] = v
	}
	for k, v := range params {
		mergedParams[k] = v
	}

	for k, v := range mergedParams {
		if strings.HasPrefix(v, "$date:") {
			if val, err := ParseDynamicDate(v, now); err == nil {
				mergedParams[k] = val
			} else {
				slog.Warn("Invalid dynamic parameter", "name", k, "value", v, "error", err)
			}
		}
	}

	return &ExportContext{
		Config:     rc,
		Parameters: mergedParams,
		Now:        now,
		Logger:     slog.Default(),
		Templates:  &TemplateLoader{},
	}
}

// logger returns the context logger, falling back to the default one.
func (ctx *ExportContext) logger() *slog.Logger {
	if ctx.Logger == nil {
		return slog.Default()
	}
	return ctx.Logger
}
