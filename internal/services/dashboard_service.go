package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SuperSnake427/DosecheckDashboard/internal/dataprocessing"
	"github.com/SuperSnake427/DosecheckDashboard/internal/dataset"
	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/infrastructure"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// DashboardConfig wires a DashboardService.
type DashboardConfig struct {
	Source     dataset.Source
	Cache      *dataset.Cache
	Grouping   dataprocessing.Grouping
	Clean      dataprocessing.CleanOptions
	SiteColumn string
	Tracer     trace.Tracer
	Metrics    *infrastructure.DashboardMetrics
	Logger     *slog.Logger
}

// DashboardService runs the load, clean, group and aggregate pipeline for
// one dataset source.
type DashboardService struct {
	source     dataset.Source
	cache      *dataset.Cache
	grouping   dataprocessing.Grouping
	clean      dataprocessing.CleanOptions
	siteColumn string
	tracer     trace.Tracer
	metrics    *infrastructure.DashboardMetrics
	logger     *slog.Logger

	mu        sync.RWMutex
	lastBuild BuildStatus
}

// BuildStatus describes the most recent pipeline run.
type BuildStatus struct {
	At         time.Time `json:"at"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	Err        error     `json:"-"`
}

// Result is the output of one pipeline run.
type Result struct {
	Dashboard *domain.Dashboard
	Grouped   *table.Table
}

// NewDashboardService creates the service. A nil cache gets a fresh one and
// a nil tracer uses the global provider.
func NewDashboardService(cfg DashboardConfig) *DashboardService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = dataset.NewCache()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}

	logger = logger.With(slog.String("component", "dashboard_service"))
	logger.Info("DashboardService initialized",
		slog.String("source", cfg.Source.ID()),
		slog.Int("categories", len(cfg.Grouping.Categories)),
		slog.Bool("lenient_dates", cfg.Clean.LenientDates))

	return &DashboardService{
		source:     cfg.Source,
		cache:      cache,
		grouping:   cfg.Grouping,
		clean:      cfg.Clean,
		siteColumn: cfg.SiteColumn,
		tracer:     tracer,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// SourceID returns the identifier of the dataset source.
func (s *DashboardService) SourceID() string { return s.source.ID() }

// Grouping returns the active drug grouping.
func (s *DashboardService) Grouping() dataprocessing.Grouping { return s.grouping }

// LastBuild returns the status of the most recent run.
func (s *DashboardService) LastBuild() BuildStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastBuild
}

// Build runs the pipeline and returns the chart data. refresh reloads the
// dataset instead of using the cached snapshot.
func (s *DashboardService) Build(ctx context.Context, refresh bool) (*domain.Dashboard, error) {
	res, err := s.Run(ctx, refresh)
	if err != nil {
		return nil, err
	}
	return res.Dashboard, nil
}

// Grouped returns the cleaned and grouped table from the cached snapshot.
func (s *DashboardService) Grouped(ctx context.Context) (*table.Table, error) {
	res, err := s.Run(ctx, false)
	if err != nil {
		return nil, err
	}
	return res.Grouped, nil
}

// Refresh drops the cached snapshot so the next run reloads the source.
func (s *DashboardService) Refresh() {
	s.cache.Invalidate(s.source.ID())
	s.logger.Info("dataset snapshot invalidated", slog.String("source", s.source.ID()))
}

// Run executes every pipeline stage and returns both the dashboard and the
// grouped table it was computed from.
func (s *DashboardService) Run(ctx context.Context, refresh bool) (res *Result, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "dashboard.build",
		trace.WithAttributes(
			attribute.String("dataset.source", s.source.ID()),
			attribute.Bool("dashboard.refresh", refresh),
		))
	defer func() {
		s.finish(ctx, span, start, res, err)
	}()

	if refresh {
		s.cache.Invalidate(s.source.ID())
	}

	var snap dataset.Snapshot
	err = s.stage(ctx, "load", func(ctx context.Context) error {
		var lerr error
		snap, lerr = s.cache.Get(ctx, s.source)
		if lerr == nil {
			s.metrics.RecordCacheLookup(ctx, s.source.ID(), snap.Hit)
			s.metrics.RecordRows(ctx, "load", snap.Table.Len())
		}
		return lerr
	})
	if err != nil {
		return nil, err
	}

	var cleaned *table.Table
	var report domain.CleanReport
	err = s.stage(ctx, "clean", func(ctx context.Context) error {
		var cerr error
		cleaned, report, cerr = dataprocessing.Clean(snap.Table, s.clean)
		if cerr == nil {
			s.metrics.RecordRows(ctx, "clean", cleaned.Len())
		}
		return cerr
	})
	if err != nil {
		return nil, err
	}
	if report.DroppedMissingFilename > 0 || report.DroppedBadDate > 0 {
		s.logger.WarnContext(ctx, "rows dropped while cleaning",
			slog.Int("rows_in", report.RowsIn),
			slog.Int("missing_filename", report.DroppedMissingFilename),
			slog.Int("bad_date", report.DroppedBadDate),
			slog.Int("rows_out", report.RowsOut))
	}

	var grouped *table.Table
	err = s.stage(ctx, "group", func(ctx context.Context) error {
		var gerr error
		grouped, gerr = dataprocessing.Group(cleaned, s.grouping)
		return gerr
	})
	if err != nil {
		return nil, err
	}

	names := s.grouping.Names()
	dash := &domain.Dashboard{
		SnapshotID: snap.ID,
		SourceID:   s.source.ID(),
		LoadedAt:   snap.LoadedAt,
		Categories: names,
		Report:     report,
	}
	err = s.stage(ctx, "aggregate", func(ctx context.Context) error {
		var aerr error
		if dash.Frequencies, aerr = dataprocessing.FrequencyCount(grouped, names); aerr != nil {
			return aerr
		}
		if dash.TimeSeries, aerr = dataprocessing.QuarterlyResample(grouped, s.clean.DateColumn, names); aerr != nil {
			return aerr
		}
		dash.Sites, aerr = dataprocessing.SiteDistribution(grouped, s.siteColumn)
		return aerr
	})
	if err != nil {
		return nil, err
	}

	return &Result{Dashboard: dash, Grouped: grouped}, nil
}

// Check loads and cleans the dataset and validates the grouping against the
// cleaned schema without aggregating anything.
func (s *DashboardService) Check(ctx context.Context) (domain.CleanReport, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.check")
	defer span.End()

	snap, err := s.cache.Get(ctx, s.source)
	if err != nil {
		return domain.CleanReport{}, fmt.Errorf("load: %w", err)
	}
	cleaned, report, err := dataprocessing.Clean(snap.Table, s.clean)
	if err != nil {
		return report, fmt.Errorf("clean: %w", err)
	}
	if err := s.grouping.ValidateAgainst(cleaned.Columns()); err != nil {
		return report, fmt.Errorf("group: %w", err)
	}
	if !cleaned.HasColumn(s.siteColumn) {
		return report, fmt.Errorf("aggregate: %w",
			apperrors.NewConfigError(fmt.Sprintf("site column %q is missing", s.siteColumn), nil))
	}
	return report, nil
}

// stage runs fn inside a child span and prefixes its error with the stage
// name.
func (s *DashboardService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "dashboard."+name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (s *DashboardService) finish(ctx context.Context, span trace.Span, start time.Time, res *Result, err error) {
	duration := time.Since(start)
	s.metrics.RecordBuild(ctx, duration, err)

	status := BuildStatus{At: time.Now(), Err: err}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "dashboard build failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
	} else {
		status.SnapshotID = res.Dashboard.SnapshotID
		span.SetAttributes(
			attribute.String("dashboard.snapshot_id", res.Dashboard.SnapshotID),
			attribute.Int("dashboard.rows", res.Grouped.Len()),
		)
		s.logger.InfoContext(ctx, "dashboard built",
			slog.String("snapshot_id", res.Dashboard.SnapshotID),
			slog.Int("rows", res.Grouped.Len()),
			slog.Duration("duration", duration))
	}
	span.End()

	s.mu.Lock()
	s.lastBuild = status
	s.mu.Unlock()
}
