package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := ErrValidation("refresh", "must be a boolean")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, "Request validation failed", err.Error())
	assert.Equal(t, ValidationError{Field: "refresh", Message: "must be a boolean"}, err.Details)
}

func TestErrRateLimitExceeded(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	require.NoError(t, render.Render(w, r, ErrRateLimitExceeded))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadGateway, TypeDataLoad, "Dataset Load Failed", "", "/api/dashboard").
		WithExtension("trace_id", "abc")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeDataLoad, body["type"])
	assert.Equal(t, "abc", body["trace_id"])
	assert.NotContains(t, body, "detail")
}
