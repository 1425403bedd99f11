// Command acctlookup ingests account identifiers from pasted text, a CSV
// column, or a prior export, runs the batch lookup against the configured
// backend, and merges the results into the report template.
//
// Example:
//
//	acctlookup -config=configs/sample.json -csv=ids.csv -out=output/results.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"acctlookup/internal/config"
	"acctlookup/internal/export"
	"acctlookup/internal/identifier"
	"acctlookup/internal/metrics"
	"acctlookup/internal/metrics/prompush"
	"acctlookup/internal/pipeline"
	"acctlookup/internal/query"
	"acctlookup/internal/storage"
	"acctlookup/internal/tabular"

	// register all storage backends with the factory.
	_ "acctlookup/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		csvPath           string
		idsPath           string
		outPath           string
		templatePath      string
		metricsBackendFlg string
		pushGatewayURLFlg string
		logPath           string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/sample.json", "lookup run config JSON path")
	flag.StringVar(&csvPath, "csv", "", "override: load identifiers from this CSV file")
	flag.StringVar(&idsPath, "ids", "", `override: load identifiers from this text file ("-" for stdin)`)
	flag.StringVar(&outPath, "out", "", "override: output artifact path (.xlsx or .csv)")
	flag.StringVar(&templatePath, "template", "", "override: template workbook path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none; default env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&logPath, "log", "logs/acct_lookup.log", "log file path (empty for stderr only)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	run, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	applyOverrides(&run, csvPath, idsPath, outPath, templatePath)

	issues := config.Validate(run)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		fmt.Printf("configuration is valid: %v\n", cfgPath)
		return
	}

	logger, err := newLogger(*verbose, logPath)
	if err != nil {
		fatalf("logger: %v", err)
	}
	defer logger.Sync()

	setupMetrics(logger, run.Job, metricsBackendFlg, pushGatewayURLFlg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics flush", zap.Error(err))
		}
	}()

	ctx := context.Background()
	start := time.Now()
	if err := execute(ctx, run, logger); err != nil {
		logger.Error("lookup failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("completed", zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
}

// applyOverrides lets frequent per-run choices (input file, output path)
// come from flags without editing the config file.
func applyOverrides(run *config.Run, csvPath, idsPath, outPath, templatePath string) {
	if csvPath != "" {
		run.Source.Kind = "csv"
		run.Source.CSV.Path = csvPath
	}
	if idsPath != "" {
		run.Source.Kind = "text"
		run.Source.Text.Path = idsPath
	}
	if outPath != "" {
		run.Export.Output = outPath
	}
	if templatePath != "" {
		run.Export.Template = templatePath
	}
}

func execute(ctx context.Context, run config.Run, logger *zap.Logger) error {
	exec, err := storage.New(ctx, storage.Config{
		Kind: run.Storage.Kind,
		DSN:  run.Storage.ResolveDSN(),
	})
	if err != nil {
		return err
	}
	defer exec.Close()

	style, _ := storage.StyleFor(run.Storage.Kind)
	p, err := pipeline.New(pipeline.Options{
		Executor: exec,
		Builder: query.Builder{
			Table:    run.Query.Table,
			IDColumn: run.Query.IDColumn,
			Columns:  run.Query.Columns,
			Style:    style,
			Literal:  run.Query.Escaping == "literal",
		},
		BatchSize: run.Query.BatchSize,
		Strict:    run.Query.StrictEnabled(),
		Job:       run.Job,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	src, err := buildSource(run.Source)
	if err != nil {
		return err
	}
	res, err := p.Lookup(ctx, src)
	if err != nil {
		return err
	}

	written, err := p.Export(res, run.Export.Template, run.Export.Output, run.Export.Sheet)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d rows to %s\n", len(res.Rows), written)
	return nil
}

// buildSource maps the config source variant onto an identifier.Source.
func buildSource(s config.Source) (identifier.Source, error) {
	switch s.Kind {
	case "text":
		text, err := readTextInput(s.Text.Path)
		if err != nil {
			return nil, err
		}
		return identifier.TextSource{Text: text}, nil
	case "csv":
		opt := tabular.Options{Column: s.CSV.Column}
		if s.CSV.Delimiter != "" {
			opt.Comma = []rune(s.CSV.Delimiter)[0]
		}
		return tabular.CSVSource{Path: s.CSV.Path, Options: opt}, nil
	case "sheet":
		return export.SheetSource{Path: s.Sheet.Path, Sheet: s.Sheet.Sheet}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

func readTextInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read ids file: %w", err)
	}
	return string(data), nil
}

// newLogger builds the application logger: stderr always, plus a log file
// when a path is configured.
func newLogger(verbose bool, logPath string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		cfg.OutputPaths = append(cfg.OutputPaths, logPath)
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// resolveMetricsBackend picks the metrics backend name: the flag when set,
// then env METRICS_BACKEND, then "none".
func resolveMetricsBackend(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if env := os.Getenv("METRICS_BACKEND"); env != "" {
		return env
	}
	return "none"
}

func setupMetrics(logger *zap.Logger, job, backendName, gwFlag string) {
	backendName = resolveMetricsBackend(backendName)
	switch backendName {
	case "pushgateway":
		gwURL := gwFlag
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			logger.Warn("metrics: pushgateway init failed; using nop", zap.Error(err))
			return
		}
		logger.Info("metrics enabled", zap.String("backend", backendName), zap.String("url", gwURL))
		metrics.SetBackend(b)
	case "none":
		// metrics disabled; nop backend remains
	default:
		logger.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", backendName))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
