// Package pipeline runs the per-page audit for every input entry
// concurrently and collects the outcome in one aggregate.Aggregator.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
	"github.com/hyperifyio/pagedeps/internal/bytelen"
	"github.com/hyperifyio/pagedeps/internal/extract"
	"github.com/hyperifyio/pagedeps/internal/fetch"
	"github.com/hyperifyio/pagedeps/internal/input"
)

// DefaultConcurrency bounds in-flight pages when no option overrides it.
const DefaultConcurrency = 16

// Failure stages.
const (
	StageFetch     = "fetch"
	StageExtract   = "extract"
	StageLength    = "length"
	StageCancelled = "cancelled"
)

// ContentProvider resolves a location to page content. *fetch.Provider
// satisfies it.
type ContentProvider interface {
	Fetch(ctx context.Context, location string) (fetch.Content, error)
}

// Orchestrator fans the entries out to concurrent tasks and waits for all of
// them. A failing entry never affects its siblings.
type Orchestrator struct {
	provider    ContentProvider
	extractor   extract.Extractor
	concurrency int
	logger      zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency caps the number of pages analysed at once. Zero removes the
// cap; negative values are ignored.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.concurrency = n
		}
	}
}

// WithExtractor replaces the default goquery extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.extractor = e
		}
	}
}

// WithLogger sets the logger used for per-entry failures and the run summary.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

func New(provider ContentProvider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:    provider,
		extractor:   extract.GoqueryExtractor{},
		concurrency: DefaultConcurrency,
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run analyses every entry and returns the final aggregate once all tasks
// have finished. Every entry ends up as exactly one length record or exactly
// one failure. Cancelling ctx stops entries that have not started yet; they
// are recorded as cancelled failures.
func (o *Orchestrator) Run(ctx context.Context, entries []input.Entry) aggregate.Result {
	agg := aggregate.New()
	start := time.Now()

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	} else {
		g.SetLimit(-1)
	}
	for _, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				o.fail(agg, e, StageCancelled, err)
				return nil
			}
			o.analyse(ctx, agg, e)
			return nil
		})
	}
	_ = g.Wait()

	res := agg.Snapshot()
	o.logger.Info().
		Int("entries", len(entries)).
		Int("pages", len(res.Lengths)).
		Int("failures", len(res.Failures)).
		Int("dependencies", len(res.Frequencies)).
		Dur("elapsed", time.Since(start)).
		Msg("audit finished")
	return res
}

// analyse computes everything for one entry before recording anything, so a
// late failure leaves no partial records behind.
func (o *Orchestrator) analyse(ctx context.Context, agg *aggregate.Aggregator, e input.Entry) {
	content, err := o.provider.Fetch(ctx, e.Location)
	if err != nil {
		o.fail(agg, e, StageFetch, err)
		return
	}
	signals, err := o.extractor.Extract(content.Body)
	if err != nil {
		o.fail(agg, e, StageExtract, err)
		return
	}
	length, err := bytelen.Measure(content.Body, signals.Charset)
	if err != nil {
		o.fail(agg, e, StageLength, err)
		return
	}
	agg.RecordPage(e.Label, length, signals.Dependencies)
	o.logger.Debug().
		Str("label", e.Label).
		Str("location", e.Location).
		Stringer("kind", content.Kind).
		Int("dependencies", len(signals.Dependencies)).
		Str("length", length.String()).
		Msg("page analysed")
}

func (o *Orchestrator) fail(agg *aggregate.Aggregator, e input.Entry, stage string, err error) {
	agg.RecordFailure(aggregate.Failure{Label: e.Label, Location: e.Location, Stage: stage, Err: err})
	o.logger.Warn().
		Err(err).
		Str("label", e.Label).
		Str("location", e.Location).
		Str("stage", stage).
		Msg(failureMessage(err, stage))
}

func failureMessage(err error, stage string) string {
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		if fe.Kind == fetch.LocalReadFailure {
			return "cannot read page"
		}
		return "cannot fetch page"
	}
	if stage == StageCancelled {
		return "page skipped"
	}
	return "cannot analyse page"
}
