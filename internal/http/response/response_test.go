package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"status": "ok"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, "Too many requests. Please try again later.", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Too many requests. Please try again later.", body.Error)
	assert.Equal(t, "RATE_LIMITED", body.Code)
}

func TestHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantCode   string
	}{
		{"validation", errors.Validation("Report text is required"), http.StatusBadRequest, "Report text is required", "VALIDATION"},
		{"not found", errors.NotFoundf("metric %d not found", 42), http.StatusNotFound, "metric 42 not found", "NOT_FOUND"},
		{"wrapped", fmt.Errorf("service: %w", errors.Conflict("exists")), http.StatusConflict, "exists", "CONFLICT"},
		{"internal", errors.Internal("Failed to analyze report"), http.StatusInternalServerError, "Failed to analyze report", "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestHandleError_Details(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, errors.ValidationWithDetails("invalid name", map[string]string{"name": "is required"}), nil)

	assert.JSONEq(t, `{"error":"invalid name","code":"VALIDATION","details":{"name":"is required"}}`, w.Body.String())
}

func TestHandleError_UnknownIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	HandleError(w, fmt.Errorf("disk on fire"), logger)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
