// Package pipeline wires the lookup end-to-end: identifier normalization,
// batch construction, strictly sequential execution against the storage
// backend, aggregation, and the template-merge export.
//
// Execution is single-threaded by design: batch i+1 is not started until
// batch i's result has been retrieved, which caps backend load and keeps
// result order deterministic. A failed batch aborts the remaining sequence
// and discards the tables already fetched; partial data is never exported.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"acctlookup/internal/export"
	"acctlookup/internal/identifier"
	"acctlookup/internal/metrics"
	"acctlookup/internal/query"
	"acctlookup/internal/result"
	"acctlookup/internal/storage"
)

// ErrNoIdentifiers reports that the source produced no identifiers at all,
// as opposed to a query that ran and matched nothing.
var ErrNoIdentifiers = errors.New("no identifiers in the input; paste account ids or load a file with an id column")

// BatchError wraps a backend failure with the zero-based index of the batch
// that caused it, so partial-failure context is not lost on the way up.
type BatchError struct {
	Batch int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d: %v", e.Batch, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Options configures a Pipeline. Executor and Builder are required.
type Options struct {
	Executor  storage.Executor
	Builder   query.Builder
	BatchSize int

	// Strict validates every identifier against the allowlist before any
	// payload is rendered.
	Strict bool

	// Job labels logs and metrics.
	Job string

	// Logger defaults to a no-op logger when nil.
	Logger *zap.Logger
}

// Pipeline executes lookups. Construct with New; the zero value is not
// usable.
type Pipeline struct {
	exec      storage.Executor
	builder   query.Builder
	batchSize int
	strict    bool
	job       string
	log       *zap.Logger
}

// New validates the options and returns a ready Pipeline. The batch size is
// checked here so a misconfiguration surfaces before any work starts.
func New(o Options) (*Pipeline, error) {
	if o.Executor == nil {
		return nil, fmt.Errorf("pipeline: executor is required")
	}
	if o.BatchSize < 1 {
		return nil, query.ErrInvalidBatchSize
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		exec:      o.Executor,
		builder:   o.Builder,
		batchSize: o.BatchSize,
		strict:    o.Strict,
		job:       o.Job,
		log:       log,
	}, nil
}

// Lookup normalizes the source, partitions it, executes every batch in
// order, and returns the aggregated result. An empty source fails with
// ErrNoIdentifiers before any query is built.
func (p *Pipeline) Lookup(ctx context.Context, src identifier.Source) (result.Table, error) {
	ids, err := src.Identifiers()
	if err != nil {
		return result.Table{}, err
	}
	if p.strict {
		if err := ids.Validate(); err != nil {
			return result.Table{}, err
		}
	}
	metrics.RecordRows(p.job, "identifiers", int64(ids.Len()))
	p.log.Info("identifiers normalized",
		zap.Int("count", ids.Len()),
		zap.Uint64("fingerprint", ids.Fingerprint()),
	)
	if ids.Len() == 0 {
		return result.Table{}, ErrNoIdentifiers
	}

	batches, err := query.Partition(ids, p.batchSize)
	if err != nil {
		return result.Table{}, err
	}
	stmts, err := p.builder.BuildAll(batches)
	if err != nil {
		return result.Table{}, err
	}

	tables := make([]result.Table, 0, len(batches))
	for i, stmt := range stmts {
		start := time.Now()
		table, err := p.exec.Execute(ctx, stmt)
		metrics.RecordStep(p.job, "execute", err, time.Since(start))
		if err != nil {
			// Abort the remaining sequence; fetched tables are discarded.
			return result.Table{}, &BatchError{Batch: i, Err: err}
		}
		p.log.Info("batch executed",
			zap.Int("batch", i),
			zap.Int("of", len(stmts)),
			zap.Int("ids", len(batches[i].IDs)),
			zap.Int("rows", len(table.Rows)),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
		tables = append(tables, table)
	}
	metrics.RecordBatches(p.job, int64(len(batches)))

	agg, err := result.Aggregate(tables)
	if err != nil {
		return result.Table{}, err
	}
	metrics.RecordRows(p.job, "fetched", int64(len(agg.Rows)))
	return agg, nil
}

// Export merges the aggregated result into the configured artifact. The
// output extension selects the writer: ".csv" produces a delimited file,
// anything else goes through the XLSX template merge.
func (p *Pipeline) Export(res result.Table, templatePath, outPath, sheet string) (string, error) {
	start := time.Now()
	var (
		written string
		err     error
	)
	if strings.EqualFold(filepath.Ext(outPath), ".csv") {
		written, err = export.WriteCSV(res, outPath)
	} else {
		w := export.TemplateWriter{TemplatePath: templatePath, Sheet: sheet}
		written, err = w.Write(res, outPath)
	}
	metrics.RecordStep(p.job, "export", err, time.Since(start))
	if err != nil {
		return "", err
	}
	metrics.RecordRows(p.job, "exported", int64(len(res.Rows)))
	p.log.Info("results exported",
		zap.String("path", written),
		zap.Int("rows", len(res.Rows)),
	)
	return written, nil
}
