package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/middleware"
	"github.com/SuperSnake427/DosecheckDashboard/internal/services"
	api "github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/api/v1"
)

// DashboardHandler serves the chart-data JSON API and the exports
type DashboardHandler struct {
	service      DashboardService
	exports      ExportService
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, exports ExportService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		exports:      exports,
		validator:    middleware.NewRequestValidator(logger, errorHandler),
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
	}
}

// Routes returns a chi router for the API endpoints
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dashboard", h.GetDashboard)
		r.Get("/dashboard/drugs", h.GetDrugs)
		r.Get("/dashboard/timeseries", h.GetTimeSeries)
		r.Get("/dashboard/sites", h.GetSites)
		r.Post("/dashboard/refresh", h.Refresh)
		r.Get("/grouping", h.GetGrouping)
	})

	r.Get("/export/{format}", h.Export)

	return r
}

// build runs the pipeline, honouring ?refresh=true. It writes the error
// response itself and returns false on failure.
func (h *DashboardHandler) build(w http.ResponseWriter, r *http.Request) (*api.DashboardResponse, bool) {
	refresh, ok := h.validator.ValidateBool(w, r, "refresh", false)
	if !ok {
		return nil, false
	}

	dash, err := h.service.Build(r.Context(), refresh)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return &api.DashboardResponse{Status: "success", Data: dash}, true
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.build(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, resp)
}

// GetDrugs handles GET /api/dashboard/drugs
func (h *DashboardHandler) GetDrugs(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.build(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, api.FrequencyResponse{
		Status:     "success",
		SnapshotID: resp.Data.SnapshotID,
		Data:       resp.Data.Frequencies,
		Count:      len(resp.Data.Frequencies),
	})
}

// GetTimeSeries handles GET /api/dashboard/timeseries
func (h *DashboardHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.build(w, r)
	if !ok {
		return
	}
	dash := resp.Data

	series := make(map[string][]int, len(dash.Categories))
	for _, c := range dash.Categories {
		series[c] = dash.SeriesFor(c)
	}
	render.JSON(w, r, api.TimeSeriesResponse{
		Status:     "success",
		SnapshotID: dash.SnapshotID,
		Labels:     dash.BucketLabels(),
		Series:     series,
		Buckets:    dash.TimeSeries,
	})
}

// GetSites handles GET /api/dashboard/sites
func (h *DashboardHandler) GetSites(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.build(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, api.SitesResponse{
		Status:     "success",
		SnapshotID: resp.Data.SnapshotID,
		Data:       resp.Data.Sites,
		Count:      len(resp.Data.Sites),
	})
}

// Refresh handles POST /api/dashboard/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh()
	h.logger.InfoContext(r.Context(), "snapshot refresh requested",
		slog.String("source", h.service.SourceID()))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, api.RefreshResponse{
		Status:        "success",
		SourceID:      h.service.SourceID(),
		InvalidatedAt: time.Now().UTC(),
	})
}

// GetGrouping handles GET /api/grouping
func (h *DashboardHandler) GetGrouping(w http.ResponseWriter, r *http.Request) {
	g := h.service.Grouping()

	categories := make([]api.GroupingCategory, len(g.Categories))
	for i, c := range g.Categories {
		categories[i] = api.GroupingCategory{Name: c.Name, Substances: c.Substances}
	}
	render.JSON(w, r, api.GroupingResponse{
		Status:     "success",
		Categories: categories,
		Count:      len(categories),
	})
}

// Export handles GET /api/export/{format}. The file is built in memory so a
// failed build still gets a problem response.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := api.ExportRequest{Format: chi.URLParam(r, "format")}
	if !h.validator.ValidateStruct(w, r, req) {
		return
	}

	format, err := services.LookupExportFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exports.Export(r.Context(), format.Name, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed",
			slog.String("format", format.Name),
			slog.String("error", err.Error()))
	}
}
