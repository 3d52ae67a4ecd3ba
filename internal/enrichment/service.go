// Package enrichment implements the concurrent issuer enrichment run: fetch
// each issuer's ISINs from the directory under a bounded worker pool, derive
// the market-sector classification, and write both back into the record.
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"isinhub/internal/audit"
	"isinhub/internal/enrichment/metrics"
	"isinhub/internal/issuer"
	"isinhub/internal/isin"
	"isinhub/internal/sector"
)

// DefaultPoolSize bounds concurrent in-flight directory calls when no
// explicit capacity is configured.
const DefaultPoolSize = 8

// Service runs enrichment over issuer record collections.
type Service struct {
	fetcher  isin.Fetcher
	store    issuer.Store
	auditor  audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	poolSize int
	tracer   trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists successful enrichments through the given store.
func WithStore(store issuer.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithAuditPublisher emits one audit event per collected outcome.
func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.auditor = publisher
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables prometheus observation of runs.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPoolSize sets the worker pool capacity.
func WithPoolSize(size int) Option {
	return func(s *Service) { s.poolSize = size }
}

// NewService constructs the enrichment service. Failing to construct the
// pool (capacity < 1) or missing the fetcher is the only fatal error path;
// everything at run time is collected per record instead.
func NewService(fetcher isin.Fetcher, opts ...Option) (*Service, error) {
	s := &Service{
		fetcher:  fetcher,
		auditor:  audit.NopPublisher{},
		logger:   slog.New(slog.DiscardHandler),
		poolSize: DefaultPoolSize,
		tracer:   otel.Tracer("isinhub/enrichment"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.fetcher == nil {
		return nil, fmt.Errorf("enrichment service requires a fetcher")
	}
	if s.poolSize < 1 {
		return nil, fmt.Errorf("cannot construct worker pool with capacity %d", s.poolSize)
	}
	return s, nil
}

// Run enriches every record concurrently under the worker pool and blocks
// until all dispatched units have completed. Records are mutated in place;
// collection order is never changed. A fetch failure for one record is
// collected in the report and never aborts the others - Run returns a
// non-nil Report and a nil error even when every record failed.
func (s *Service) Run(ctx context.Context, records []*issuer.IssuerRecord, sectors sector.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(records)),
	}

	ctx, span := s.tracer.Start(ctx, "enrichment.run",
		trace.WithAttributes(
			attribute.String("run_id", report.RunID),
			attribute.Int("record_count", len(records)),
			attribute.Int("pool_size", s.poolSize),
		))
	defer span.End()

	s.logger.InfoContext(ctx, "enrichment run started",
		"run_id", report.RunID,
		"record_count", len(records),
		"pool_size", s.poolSize,
	)

	var g errgroup.Group
	g.SetLimit(s.poolSize)

	for i, record := range records {
		// Each unit exclusively owns one record and one outcome slot, so
		// concurrent writes never touch the same element.
		report.Outcomes[i] = Outcome{IssuerID: record.ID, State: StatePending}
		outcome := &report.Outcomes[i]

		g.Go(func() error {
			outcome.State = StateDispatched
			s.runUnit(ctx, record, sectors, outcome)
			return nil
		})
	}

	// Synchronous join barrier: units never return errors, so Wait only
	// blocks until the last unit completes.
	_ = g.Wait()
	report.FinishedAt = time.Now()

	for i := range report.Outcomes {
		report.Outcomes[i].Collected = true
	}

	s.collect(ctx, report)
	return report, nil
}

// RunStored loads the full issuer collection from the store and enriches it.
// This is the entry point the HTTP surface uses.
func (s *Service) RunStored(ctx context.Context, sectors sector.Context) (*Report, error) {
	if s.store == nil {
		return nil, fmt.Errorf("enrichment service has no store configured")
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load issuer collection: %w", err)
	}

	return s.Run(ctx, records, sectors)
}

// runUnit is one unit of work: fetch, classify, persist, mutate.
func (s *Service) runUnit(ctx context.Context, record *issuer.IssuerRecord, sectors sector.Context, outcome *Outcome) {
	s.metrics.UnitStarted()
	defer s.metrics.UnitFinished()

	ctx, span := s.tracer.Start(ctx, "enrichment.unit",
		trace.WithAttributes(attribute.Int64("issuer_id", record.ID)))
	defer span.End()

	start := time.Now()
	isins, err := s.fetcher.Fetch(ctx, record.ID)
	s.metrics.ObserveFetchLatency(time.Since(start))

	if err == nil && s.store != nil {
		err = s.store.SaveEnrichment(ctx, record.ID, isins, sector.Classify(sectors), time.Now())
	}
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.State = StateFailed
		outcome.Err = err
		return
	}

	enrichedAt := time.Now()
	record.ISINs = isins
	record.Type = sector.Classify(sectors)
	record.EnrichedAt = &enrichedAt
	outcome.State = StateSucceeded
}

// collect reports every outcome individually: failures are logged with the
// offending issuer and reason, successes feed metrics and the audit trail.
func (s *Service) collect(ctx context.Context, report *Report) {
	for _, outcome := range report.Outcomes {
		if outcome.Failed() {
			s.metrics.IncrementOutcome(string(StateFailed))
			s.logger.ErrorContext(ctx, "issuer enrichment failed",
				"run_id", report.RunID,
				"issuer_id", outcome.IssuerID,
				"category", string(isin.CategoryOf(outcome.Err)),
				"error", outcome.Err,
			)
			s.emit(ctx, audit.Event{
				RunID:    report.RunID,
				IssuerID: outcome.IssuerID,
				Action:   audit.ActionEnrichmentFailed,
				Reason:   outcome.Err.Error(),
			})
			continue
		}

		s.metrics.IncrementOutcome(string(StateSucceeded))
		s.emit(ctx, audit.Event{
			RunID:    report.RunID,
			IssuerID: outcome.IssuerID,
			Action:   audit.ActionIssuerEnriched,
		})
	}

	s.metrics.ObserveRunDuration(report.Duration())
	s.emit(ctx, audit.Event{
		RunID:  report.RunID,
		Action: audit.ActionRunCompleted,
	})

	s.logger.InfoContext(ctx, "enrichment run completed",
		"run_id", report.RunID,
		"succeeded", len(report.Succeeded()),
		"failed", len(report.Failed()),
		"duration_ms", report.Duration().Milliseconds(),
	)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"run_id", event.RunID,
			"action", event.Action,
			"error", err,
		)
	}
}
