// Package ingest orchestrates one ingestion batch: provider fetch,
// normalization, diagnostics, country master load and full fact replacement.
// A Runner enforces single-flight execution and exposes observable run state
// for the HTTP boundary.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/catalog"
	"github.com/eed-project/eedx/pkg/db/models"
	"github.com/eed-project/eedx/pkg/metrics"
	"github.com/eed-project/eedx/pkg/normalize"
	"github.com/eed-project/eedx/pkg/worldbank"
)

// State is the observable lifecycle of the runner.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// ErrRunActive is returned when a run is requested while another is in
// progress. Overlapping loads are unsafe: the truncate-then-insert phase
// assumes exclusive write access to the fact table.
var ErrRunActive = errors.New("ingestion run already active")

// Fetcher pulls the sparse provider table. Implemented by worldbank.Client.
type Fetcher interface {
	Fetch(ctx context.Context, indicatorCodes []string, countryCodes []string, startYear, endYear int) (worldbank.SparseTable, error)
}

// Loader is the write half of the store the runner needs.
type Loader interface {
	LoadCountries(ctx context.Context, countries []models.Country) (int, error)
	ReplaceFacts(ctx context.Context, facts []models.Fact) (int, error)
}

// Publisher receives run lifecycle events. Implemented by the optional redis
// client.
type Publisher interface {
	PublishEvent(ctx context.Context, event any)
}

// RunReport is a snapshot of one run's progress and outcome.
type RunReport struct {
	ID                string    `json:"id"`
	StartYear         int       `json:"start_year"`
	EndYear           int       `json:"end_year"`
	State             State     `json:"state"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at,omitzero"`
	CountriesInserted int       `json:"countries_inserted"`
	FactsLoaded       int       `json:"facts_loaded"`
	FactsNormalized   int       `json:"facts_normalized"`
	UnresolvedCount   int       `json:"unresolved_count"`
	Error             string    `json:"error,omitempty"`
}

// Status is what the HTTP boundary polls.
type Status struct {
	State   State      `json:"state"`
	LastRun *RunReport `json:"last_run,omitempty"`
}

// Runner executes ingestion batches one at a time.
type Runner struct {
	logger  *zap.Logger
	catalog *catalog.Catalog
	fetcher Fetcher
	loader  Loader

	metrics *metrics.Metrics
	events  Publisher
	diagDir string

	running atomic.Bool
	seq     atomic.Uint64

	mu   sync.Mutex
	last *RunReport

	history *xsync.Map[string, RunReport]
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithEvents attaches a run-event publisher.
func WithEvents(p Publisher) Option {
	return func(r *Runner) { r.events = p }
}

// WithDiagnosticsDir sets where unresolved-country and fact dumps are written.
func WithDiagnosticsDir(dir string) Option {
	return func(r *Runner) { r.diagDir = dir }
}

// NewRunner wires a runner over a catalog, a fetcher and a loader.
func NewRunner(logger *zap.Logger, cat *catalog.Catalog, fetcher Fetcher, loader Loader, opts ...Option) *Runner {
	r := &Runner{
		logger:  logger,
		catalog: cat,
		fetcher: fetcher,
		loader:  loader,
		history: xsync.NewMap[string, RunReport](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TryStart launches a run in the background. It fails fast with ErrRunActive
// when another run holds the flight slot.
func (r *Runner) TryStart(ctx context.Context, startYear, endYear int) (RunReport, error) {
	rpt, err := r.begin(startYear, endYear)
	if err != nil {
		return RunReport{}, err
	}
	go r.run(ctx, rpt)
	return *rpt, nil
}

// RunOnce executes a run synchronously and returns its final report.
func (r *Runner) RunOnce(ctx context.Context, startYear, endYear int) (RunReport, error) {
	rpt, err := r.begin(startYear, endYear)
	if err != nil {
		return RunReport{}, err
	}
	r.run(ctx, rpt)

	final := r.snapshot(rpt.ID)
	if final.State == StateFailed {
		return final, fmt.Errorf("ingestion run %s failed: %s", final.ID, final.Error)
	}
	return final, nil
}

// Status reports the current state plus the most recent run, if any.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last == nil {
		return Status{State: StateIdle}
	}
	last := *r.last
	return Status{State: last.State, LastRun: &last}
}

// Active reports whether a run currently holds the flight slot.
func (r *Runner) Active() bool {
	return r.running.Load()
}

// Run returns a past run's report by id.
func (r *Runner) Run(id string) (RunReport, bool) {
	return r.history.Load(id)
}

func (r *Runner) begin(startYear, endYear int) (*RunReport, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunActive
	}

	rpt := &RunReport{
		ID:        fmt.Sprintf("run-%s-%d", time.Now().UTC().Format("20060102T150405"), r.seq.Add(1)),
		StartYear: startYear,
		EndYear:   endYear,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.last = rpt
	r.mu.Unlock()
	r.history.Store(rpt.ID, *rpt)

	return rpt, nil
}

func (r *Runner) run(ctx context.Context, rpt *RunReport) {
	defer r.running.Store(false)

	logger := r.logger.With(zap.String("run_id", rpt.ID),
		zap.Int("start_year", rpt.StartYear), zap.Int("end_year", rpt.EndYear))
	logger.Info("ingestion run started")
	r.publish(ctx, "run_started", rpt)

	indicatorCodes := make([]string, 0, len(r.catalog.Indicators()))
	for _, ind := range r.catalog.Indicators() {
		indicatorCodes = append(indicatorCodes, ind.APICode)
	}

	// Fetch first: the fact table must not be touched unless the provider
	// call completed in full.
	table, err := r.fetcher.Fetch(ctx, indicatorCodes, r.catalog.CountryCodes(), rpt.StartYear, rpt.EndYear)
	if err != nil {
		r.finish(ctx, rpt, logger, fmt.Errorf("provider fetch: %w", err))
		return
	}

	result := normalize.Normalize(table, r.catalog, logger)
	r.update(rpt, func(rp *RunReport) {
		rp.FactsNormalized = len(result.Facts)
		rp.UnresolvedCount = len(result.Unresolved)
	})

	if r.diagDir != "" {
		writeDiagnostics(r.diagDir, result, logger)
	}

	inserted, err := r.loader.LoadCountries(ctx, r.catalog.MasterCountries())
	if err != nil {
		r.finish(ctx, rpt, logger, fmt.Errorf("load countries: %w", err))
		return
	}
	r.update(rpt, func(rp *RunReport) { rp.CountriesInserted = inserted })

	loaded, err := r.loader.ReplaceFacts(ctx, result.Facts)
	if err != nil {
		r.finish(ctx, rpt, logger, fmt.Errorf("replace facts: %w", err))
		return
	}
	r.update(rpt, func(rp *RunReport) { rp.FactsLoaded = loaded })

	r.finish(ctx, rpt, logger, nil)
}

func (r *Runner) update(rpt *RunReport, fn func(*RunReport)) {
	r.mu.Lock()
	fn(rpt)
	snap := *rpt
	r.mu.Unlock()
	r.history.Store(snap.ID, snap)
}

func (r *Runner) finish(ctx context.Context, rpt *RunReport, logger *zap.Logger, runErr error) {
	r.update(rpt, func(rp *RunReport) {
		rp.FinishedAt = time.Now().UTC()
		if runErr != nil {
			rp.State = StateFailed
			rp.Error = runErr.Error()
		} else {
			rp.State = StateCompleted
		}
	})

	snap := r.snapshot(rpt.ID)
	duration := snap.FinishedAt.Sub(snap.StartedAt)

	if r.metrics != nil {
		r.metrics.RunDuration.Observe(duration.Seconds())
		if runErr != nil {
			r.metrics.RunsTotal.WithLabelValues(string(StateFailed)).Inc()
		} else {
			r.metrics.RunsTotal.WithLabelValues(string(StateCompleted)).Inc()
			r.metrics.FactsLoaded.Set(float64(snap.FactsLoaded))
			r.metrics.RowsSkipped.Set(float64(snap.FactsNormalized - snap.FactsLoaded))
			r.metrics.Unresolved.Set(float64(snap.UnresolvedCount))
			r.metrics.CountriesRows.Set(float64(snap.CountriesInserted))
		}
	}

	if runErr != nil {
		logger.Error("ingestion run failed", zap.Duration("duration", duration), zap.Error(runErr))
		r.publish(ctx, "run_failed", &snap)
		return
	}

	logger.Info("ingestion run completed",
		zap.Duration("duration", duration),
		zap.Int("facts_loaded", snap.FactsLoaded),
		zap.Int("unresolved", snap.UnresolvedCount))
	r.publish(ctx, "run_completed", &snap)
}

func (r *Runner) snapshot(id string) RunReport {
	if snap, ok := r.history.Load(id); ok {
		return snap
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.last
}

func (r *Runner) publish(ctx context.Context, event string, rpt *RunReport) {
	if r.events == nil {
		return
	}
	r.events.PublishEvent(ctx, map[string]any{"event": event, "run": rpt})
}
