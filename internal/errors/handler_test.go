package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := newTestLogger()

	handler := NewErrorHandler(logger, true)

	assert.NotNil(t, handler)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "api error",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
		},
		{
			name:       "configuration error",
			err:        NewConfigError("unknown substance column", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeConfiguration,
			wantTitle:  "Configuration Error",
		},
		{
			name:       "wrapped data integrity error",
			err:        fmt.Errorf("clean: %w", NewDataIntegrityError("duplicate key", nil)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataIntegrity,
			wantTitle:  "Data Integrity Error",
		},
		{
			name:       "load error",
			err:        NewLoadError("fetch failed", fmt.Errorf("connection refused")),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeDataLoad,
			wantTitle:  "Dataset Load Failed",
		},
		{
			name:       "parsing error",
			err:        NewParsingError("line 3: 3 fields, header has 2", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataParsing,
			wantTitle:  "Data Parsing Error",
		},
		{
			name:       "not found error",
			err:        NewNotFoundError(`export format "pdf"`),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantTitle:  "Resource Not Found",
		},
		{
			name:       "generic error",
			err:        fmt.Errorf("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newTestLogger()
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantTitle, body["title"])
			assert.EqualValues(t, tt.wantStatus, body["status"])
			assert.Equal(t, "/api/dashboard", body["instance"])

			assert.Contains(t, logs.String(), "request failed")
		})
	}
}

func TestErrorHandler_HandleNilError(t *testing.T) {
	logger, logs := newTestLogger()
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Empty(t, w.Body.String())
	assert.Empty(t, logs.String())
}

func TestErrorHandler_AppErrorContext(t *testing.T) {
	logger, _ := newTestLogger()
	handler := NewErrorHandler(logger, false)

	err := NewConfigError("category collides with existing column", nil).
		WithContext("category", "Site")
	problem := handler.ErrorToProblem(err, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "CONFIG", problem.Extensions["error_type"])
	assert.Equal(t, map[string]interface{}{"category": "Site"}, problem.Extensions["context"])
	assert.Contains(t, problem.Detail, "category collides")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := newTestLogger()
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/boom", nil), "boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"panic":"boom"`)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := newTestLogger()
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method DELETE is not allowed")
}
