package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SuperSnake427/DosecheckDashboard/internal/charts"
	"github.com/SuperSnake427/DosecheckDashboard/internal/config"
	"github.com/SuperSnake427/DosecheckDashboard/internal/dataprocessing"
	"github.com/SuperSnake427/DosecheckDashboard/internal/dataset"
	"github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/exporter"
	"github.com/SuperSnake427/DosecheckDashboard/internal/infrastructure"
	customMiddleware "github.com/SuperSnake427/DosecheckDashboard/internal/middleware"
	"github.com/SuperSnake427/DosecheckDashboard/internal/services"
	handlers "github.com/SuperSnake427/DosecheckDashboard/internal/transport/http"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        chi.Router
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics

	Dashboard     *services.DashboardService
	Exports       *services.ExportService
	HealthService *services.HealthService

	errorHandler *errors.ErrorHandler
}

// Option customizes NewApplication.
type Option func(*options)

type options struct {
	sourceOptions dataset.Options
}

// WithSourceOptions overrides the dataset options derived from the config,
// e.g. to inject an HTTP or S3 client.
func WithSourceOptions(opts dataset.Options) Option {
	return func(o *options) {
		o.sourceOptions = opts
	}
}

// NewApplication wires configuration, telemetry, the dashboard pipeline and
// the HTTP router. The server is created but not started.
func NewApplication(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	o := options{sourceOptions: SourceOptions(cfg.Source)}
	for _, opt := range opts {
		opt(&o)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}
	paths.LogPathResolution()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreateDashboardMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	grouping, err := LoadGrouping(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load drug grouping: %w", err)
	}

	source, err := dataset.Open(cfg.Source.ID, o.sourceOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset source: %w", err)
	}

	dashboard := services.NewDashboardService(services.DashboardConfig{
		Source:   source,
		Cache:    dataset.NewCache(),
		Grouping: grouping,
		Clean: dataprocessing.CleanOptions{
			FilenameColumn: cfg.Dataset.FilenameColumn,
			DateColumn:     cfg.Dataset.DateColumn,
			KeyColumn:      cfg.Dataset.KeyColumn,
			LenientDates:   cfg.LenientDates(),
		},
		SiteColumn: cfg.Dataset.SiteColumn,
		Tracer:     providers.Tracer,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Dashboard:     dashboard,
		Exports:       services.NewExportService(dashboard, exporter.NewCSVWriter(paths), logger),
		HealthService: services.NewHealthService(contracts.Version, config.RepoURL, contracts.BuildTime, cfg.Paths, dashboard, logger),
		errorHandler:  errors.NewErrorHandler(logger, false),
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// SourceOptions maps the source settings onto dataset.Options.
func SourceOptions(cfg config.SourceConfig) dataset.Options {
	return dataset.Options{
		Timeout:               cfg.Timeout,
		SheetsAPIKey:          cfg.SheetsAPIKey,
		SheetsCredentialsFile: cfg.SheetsCredentialsFile,
		S3Region:              cfg.S3Region,
		S3Endpoint:            cfg.S3Endpoint,
		S3PathStyle:           cfg.S3PathStyle,
	}
}

// LoadGrouping returns the grouping file named by cfg, or the built-in
// grouping when none is set. Either way the grouping is validated.
func LoadGrouping(cfg config.DatasetConfig) (dataprocessing.Grouping, error) {
	if cfg.GroupingFile != "" {
		return dataprocessing.LoadGroupingFile(cfg.GroupingFile)
	}
	g := dataprocessing.DefaultGrouping()
	if err := g.Validate(); err != nil {
		return dataprocessing.Grouping{}, err
	}
	return g, nil
}

// setupRouter configures all routes and middleware
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.errorHandler))
		r.Use(customMiddleware.SecurityHeaders(charts.AssetsHost))
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.RateLimit.Enabled {
			limiter := customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger)
			r.Use(limiter.Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		pageHandler := handlers.NewPageHandler(a.Dashboard, a.Logger, a.errorHandler)
		r.Get("/", pageHandler.ServeDashboard)

		a.setupAPIRoutes(r)

		r.NotFound(a.errorHandler.NotFound)
		r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes mounts the chart-data API and the health endpoints under /api
func (a *Application) setupAPIRoutes(r chi.Router) {
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Exports, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	api := dashboardHandler.Routes()
	healthHandler.Routes(api)
	r.Mount("/api", api)
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server in the background. A listen failure cancels
// the application context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("source", a.Dashboard.SourceID()),
		slog.String("level", a.Config.Logging.Level))

	a.Logger.InfoContext(ctx, "Application paths",
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("exports_dir", a.Paths.ExportsDir),
		slog.String("logs_dir", a.Paths.LogsDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// A failed first build is logged, not fatal: the page reports the error
	// and the next request retries.
	go a.warmUp(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Preflight checks the grouping against the live dataset schema before the
// server accepts traffic. Configuration errors are returned; load and data
// errors are only logged since the source may recover before the first
// request.
func (a *Application) Preflight(ctx context.Context) error {
	report, err := a.Dashboard.Check(ctx)
	switch {
	case err == nil:
		a.Logger.InfoContext(ctx, "Preflight check passed",
			slog.Int("rows_in", report.RowsIn),
			slog.Int("rows_out", report.RowsOut))
		return nil
	case stderrors.Is(err, dataprocessing.ErrConfiguration):
		return fmt.Errorf("preflight: %w", err)
	default:
		a.Logger.WarnContext(ctx, "Preflight check could not load the dataset", slog.String("error", err.Error()))
		return nil
	}
}

func (a *Application) warmUp(ctx context.Context) {
	if _, err := a.Dashboard.Build(ctx, false); err != nil {
		a.Logger.WarnContext(ctx, "Initial dashboard build failed", slog.String("error", err.Error()))
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Shutdown(shutdownCtx)

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Shutdown flushes telemetry. Commands that never start the server call it
// directly.
func (a *Application) Shutdown(ctx context.Context) {
	if a.OTelProviders == nil {
		return
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Context cancelled, shutting down")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
