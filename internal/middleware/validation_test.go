package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	api "github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/api/v1"
)

func newValidator() *RequestValidator {
	return NewRequestValidator(discardLogger(), apierrors.NewErrorHandler(discardLogger(), false))
}

func TestRequestValidator_ValidateStruct(t *testing.T) {
	tests := []struct {
		format string
		ok     bool
	}{
		{format: "xlsx", ok: true},
		{format: "csv-sites", ok: true},
		{format: "pdf", ok: false},
		{format: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/export/"+tt.format, nil)

			ok := newValidator().ValidateStruct(rec, req, api.ExportRequest{Format: tt.format})
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "format")
			}
		})
	}
}

func TestRequestValidator_ValidateBool(t *testing.T) {
	tests := []struct {
		query string
		want  bool
		ok    bool
	}{
		{query: "", want: false, ok: true},
		{query: "?refresh=true", want: true, ok: true},
		{query: "?refresh=0", want: false, ok: true},
		{query: "?refresh=maybe", want: false, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard"+tt.query, nil)

			got, ok := newValidator().ValidateBool(rec, req, "refresh", false)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}
