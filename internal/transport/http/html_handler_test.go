package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SuperSnake427/DosecheckDashboard/internal/charts"
	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

func TestPageHandler_ServeDashboard(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		refresh bool
	}{
		{"cached snapshot", "/", false},
		{"explicit refresh", "/?refresh=true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On("Build", mock.Anything, tt.refresh).Return(sampleDashboard(), nil).Once()

			logger := discardLogger()
			h := NewPageHandler(svc, logger, apperrors.NewErrorHandler(logger, false))

			rec := httptest.NewRecorder()
			h.ServeDashboard(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), charts.FrequencyTitle)
			svc.AssertExpectations(t)
		})
	}
}

func TestPageHandler_InvalidRefresh(t *testing.T) {
	svc := new(MockDashboardService)

	logger := discardLogger()
	h := NewPageHandler(svc, logger, apperrors.NewErrorHandler(logger, false))

	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, httptest.NewRequest(http.MethodGet, "/?refresh=maybe", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Build", mock.Anything, mock.Anything)
}

func TestPageHandler_BuildFailure(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Build", mock.Anything, false).Return(nil, apperrors.NewLoadError("fetch failed", nil))

	logger := discardLogger()
	h := NewPageHandler(svc, logger, apperrors.NewErrorHandler(logger, false))

	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), charts.FrequencyTitle)
}
