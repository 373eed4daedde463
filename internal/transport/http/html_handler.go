package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/SuperSnake427/DosecheckDashboard/internal/charts"
	apierrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/middleware"
)

// PageHandler serves the rendered dashboard page
type PageHandler struct {
	service      DashboardService
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler creates a new page handler
func NewPageHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PageHandler {
	return &PageHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(logger, errorHandler),
		logger:       logger.With(slog.String("handler", "page")),
		errorHandler: errorHandler,
	}
}

// ServeDashboard handles GET /. The page is built from the cached dataset
// snapshot; ?refresh=true reloads the source first.
func (h *PageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	refresh, ok := h.validator.ValidateBool(w, r, "refresh", false)
	if !ok {
		return
	}

	dash, err := h.service.Build(r.Context(), refresh)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderPage(&buf, dash); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "page write failed", slog.String("error", err.Error()))
	}
}
