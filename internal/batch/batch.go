// Package batch runs many documents through the extraction pipeline with
// bounded concurrency. Each document fails or succeeds on its own; one bad
// file never aborts the run.
package batch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talentwire/cvscan/internal/extract"
	"github.com/talentwire/cvscan/internal/ingest"
	"github.com/talentwire/cvscan/internal/schema"
)

// DefaultWorkers is the concurrency used when the caller does not set one.
const DefaultWorkers = 4

// TextParser turns a loaded document into plain text.
type TextParser interface {
	Parse(ctx context.Context, doc ingest.Document) (*ingest.Parsed, error)
}

// Item is the outcome for one document. Either Outcome or Err is set.
type Item struct {
	Name     string
	Path     string
	Hash     string
	Outcome  *extract.Outcome
	Err      error
	Duration time.Duration
}

// ResultSet collects the per-document items of one run, in input order.
type ResultSet struct {
	Items   []Item
	Columns []string
	Started time.Time
	Elapsed time.Duration
}

// Summary aggregates a finished run.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	Preapproved int
	MeanScore   float64
}

// Summarize computes run statistics. The mean score covers successful
// extractions that produced a score.
func (rs *ResultSet) Summarize() Summary {
	s := Summary{Total: len(rs.Items)}
	scoreSum := 0.0
	scored := 0

	for _, item := range rs.Items {
		if item.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		if item.Outcome.Preapproved {
			s.Preapproved++
		}
		if v, ok := item.Outcome.Record["score_general"].(int64); ok {
			scoreSum += float64(v)
			scored++
		}
	}
	if scored > 0 {
		s.MeanScore = scoreSum / float64(scored)
	}
	return s
}

// Orchestrator fans documents out to a bounded worker pool.
type Orchestrator struct {
	extractor *extract.Extractor
	parser    TextParser
	schema    *schema.Compiled
	workers   int
	logger    *slog.Logger
}

// Options configures an Orchestrator.
type Options struct {
	Workers int
	Logger  *slog.Logger
}

// New builds an Orchestrator over an extractor and a document parser.
func New(extractor *extract.Extractor, parser TextParser, cs *schema.Compiled, opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		extractor: extractor,
		parser:    parser,
		schema:    cs,
		workers:   workers,
		logger:    logger,
	}
}

// Run processes all documents and returns a ResultSet in input order.
// Worker errors are captured per item; Run itself only fails when the
// context is cancelled.
func (o *Orchestrator) Run(ctx context.Context, docs []ingest.Document) (*ResultSet, error) {
	started := time.Now()
	items := make([]Item, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, doc := range docs {
		g.Go(func() error {
			items[i] = o.processOne(gctx, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rs := &ResultSet{
		Items:   items,
		Columns: columns(o.schema),
		Started: started,
		Elapsed: time.Since(started),
	}

	summary := rs.Summarize()
	o.logger.Info("batch complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"preapproved", summary.Preapproved,
		"elapsed", rs.Elapsed)

	return rs, nil
}

func (o *Orchestrator) processOne(ctx context.Context, doc ingest.Document) Item {
	start := time.Now()
	item := Item{
		Name: doc.Name,
		Path: doc.Path,
		Hash: doc.Hash(),
	}

	parsed, err := o.parser.Parse(ctx, doc)
	if err != nil {
		o.logger.Warn("document parse failed", "file", doc.Name, "error", err)
		item.Err = err
		item.Duration = time.Since(start)
		return item
	}

	outcome, err := o.extractor.ExtractOne(ctx, parsed.Text)
	if err != nil {
		o.logger.Warn("extraction failed", "file", doc.Name, "error", err)
		item.Err = err
		item.Duration = time.Since(start)
		return item
	}

	// The parser saw the actual file; its photo signal beats a model guess
	// when the model returned nothing. The pre-approval flag depends on the
	// photo signal, so it is recomputed after the backfill.
	if outcome.Record["hay_foto_en_cv"] == nil {
		outcome.Record["hay_foto_en_cv"] = parsed.HasPhoto
		outcome.Preapproved = o.extractor.Rederive(outcome.Record)
	}

	item.Outcome = outcome
	item.Duration = time.Since(start)

	o.logger.Debug("document processed",
		"file", doc.Name,
		"attempts", outcome.Attempts,
		"duration", item.Duration)

	return item
}

// columns is the canonical export order: file metadata, then the schema
// fields in declaration order, then the derived flag, then the error column.
func columns(cs *schema.Compiled) []string {
	cols := []string{"archivo", "hash"}
	cols = append(cols, cs.FieldNames()...)
	cols = append(cols, extract.DerivedKey, "error")
	return cols
}
