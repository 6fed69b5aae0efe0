package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/google/uuid"
	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
	"github.com/proddogan-cmyk/hesapkapama-sub000/core"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const defaultSQLTable = "transactions"

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("Generation failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(output io.Writer, format string, debug bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	return slog.New(handler).With("run_id", uuid.NewString()), nil
}

func run(output io.Writer, args []string) error {
	flags := flag.NewFlagSet("hesapkapama", flag.ContinueOnError)
	flags.SetOutput(output)

	configFile := flags.String("config", "", "Path to report configuration (defaults to the built-in contract)")
	dataSourceFile := flags.String("datasources", "", "Path to data source bundle (optional)")
	sourceName := flags.String("source", "", "Data source to read transactions from (optional with a single source)")
	project := flags.String("project", "", "Project whose ledger is exported")
	reporter := flags.String("reporter", "", "Name written to the reporter cell")
	templatePath := flags.String("template", "", "Template path or s3://bucket/key (overrides the configuration)")
	outputDir := flags.String("output", ".", "Root directory for output files")
	s3Bucket := flags.String("s3-bucket", "", "S3 bucket name for uploading output")
	s3Prefix := flags.String("s3-prefix", "hesap-kapama", "S3 prefix (folder) for uploaded files")
	logFormat := flags.String("log-format", "text", "Log format: text or json")
	debug := flags.Bool("debug", false, "Enable debug logging")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *project == "" {
		return fmt.Errorf("-project is required")
	}

	logger, err := newLogger(output, *logFormat, *debug)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	ctx := context.Background()

	// 1. Load configuration
	rc := config.DefaultReportConfig()
	if *configFile != "" {
		slog.Info("Loading report configuration", "file", *configFile)
		if rc, err = config.LoadReportConfig(*configFile); err != nil {
			return err
		}
	}
	if *templatePath != "" {
		rc.Template = *templatePath
	}
	dataSources, err := rc.DataSourceMap()
	if err != nil {
		return err
	}
	if *dataSourceFile != "" {
		slog.Info("Loading data source bundle", "file", *dataSourceFile)
		bundle, err := config.LoadDataSourcesBundle(*dataSourceFile)
		if err != nil {
			return err
		}
		for name, ds := range bundle {
			dataSources[name] = ds
		}
	}

	registry := config.NewMemoryConfigRegistry(rc.CategoryMap(), dataSources)
	validator := config.NewValidator(registry)
	if err := validator.ValidateReport(rc); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}

	// 2. Prepare transaction source
	dsName, err := pickSource(*sourceName, dataSources)
	if err != nil {
		return err
	}
	if err := validator.ValidateSourceRef(dsName); err != nil {
		return err
	}
	ds, _ := registry.GetDataSourceConfig(dsName)
	if err := validator.ValidateDataSource(ds); err != nil {
		return err
	}

	awsCfg := &awsLoader{}
	source, closeSource, err := openSource(ctx, ds, awsCfg)
	if err != nil {
		return err
	}
	defer closeSource()

	slog.Info("Fetching transactions", "source", ds.Name, "driver", ds.Driver, "project", *project)
	txs, err := source.Fetch(ctx, *project)
	if err != nil {
		return fmt.Errorf("fetch transactions from %s: %w", ds.Name, err)
	}
	slog.Info("Fetched transactions", "count", len(txs))

	// 3. Generate report
	exportCtx := core.NewExportContext(rc, nil, time.Now())
	exportCtx.Logger = logger
	if strings.HasPrefix(rc.Template, "s3://") {
		cfg, err := awsCfg.config(ctx, "")
		if err != nil {
			return err
		}
		exportCtx.Templates = &core.TemplateLoader{S3: core.NewS3Store(cfg, "", "")}
	}

	slog.Info("Processing report", "name", rc.Name, "template", rc.Template)
	generator := core.NewGenerator(exportCtx)
	report, err := generator.Generate(ctx, txs, core.ProjectMeta{Name: *project, Reporter: *reporter})
	if err != nil {
		return fmt.Errorf("generate report %s: %w", rc.Name, err)
	}
	for _, s := range report.Skipped {
		slog.Warn("Category not exported",
			"category", s.Category, "sheet", s.Sheet, "records", s.Records, "amount", s.Amount.String(), "reason", s.Reason)
	}

	path, err := generator.WriteReport(report, *outputDir)
	if err != nil {
		return err
	}
	slog.Info("Successfully generated",
		"path", path,
		"sheets", len(report.Stats.Sheets),
		"received", report.Stats.Received.Rows,
		"given", report.Stats.Given.Rows,
		"skipped", len(report.Skipped),
	)

	// 4. Upload to S3 if configured
	if *s3Bucket != "" {
		cfg, err := awsCfg.config(ctx, "")
		if err != nil {
			return err
		}
		store := core.NewS3Store(cfg, *s3Bucket, *s3Prefix)
		key, err := store.UploadReport(ctx, report)
		if err != nil {
			return err
		}
		slog.Info("Successfully uploaded to S3", "bucket", *s3Bucket, "key", key)
	}
	return nil
}

// pickSource resolves the data source to read. Without a name the only
// configured source is used.
func pickSource(name string, sources map[string]*config.DataSourceConfig) (string, error) {
	if name != "" {
		return name, nil
	}
	if len(sources) != 1 {
		return "", fmt.Errorf("-source is required when %d data sources are configured", len(sources))
	}
	for n := range sources {
		return n, nil
	}
	return "", nil
}

// awsLoader loads the AWS configuration on first use, so runs that touch
// no AWS service need no credentials.
type awsLoader struct {
	cfg *aws.Config
}

func (l *awsLoader) config(ctx context.Context, region string) (aws.Config, error) {
	if l.cfg != nil {
		return *l.cfg, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	l.cfg = &cfg
	return cfg, nil
}

// openSource builds the transaction source of ds. The returned func
// releases it.
func openSource(ctx context.Context, ds *config.DataSourceConfig, awsCfg *awsLoader) (core.TransactionSource, func(), error) {
	noop := func() {}
	switch ds.Driver {
	case "csv":
		slog.Info("Initializing CSV transaction source", "dir", ds.Dir)
		return core.NewCsvTransactionSource(ds.Dir), noop, nil
	case "mysql", "postgres", "sqlite3":
		slog.Info("Initializing SQL transaction source", "driver", ds.Driver)
		db, err := sql.Open(ds.Driver, ds.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to ping db: %w", err)
		}
		table := ds.Table
		if table == "" {
			table = defaultSQLTable
		}
		return core.NewSQLTransactionSource(db, ds.Driver, table), func() { _ = db.Close() }, nil
	case "dynamodb":
		slog.Info("Initializing DynamoDB transaction source", "table", ds.Table)
		cfg, err := awsCfg.config(ctx, ds.Region)
		if err != nil {
			return nil, nil, err
		}
		return core.NewDynamoDBTransactionSource(cfg, ds.Table), noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", ds.Driver)
	}
}
