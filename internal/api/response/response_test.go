// internal/api/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("X-Request-ID", "req-1")

	JSON(w, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]any{"hello": "world"}, resp.Data)
	assert.False(t, resp.Meta.Timestamp.IsZero())
	assert.Equal(t, "req-1", resp.Meta.RequestID)
}

func TestError_WithCoreError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, errors.New("workers must be positive")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIG_INVALID", resp.Error.Code)
	assert.Equal(t, "workers must be positive", resp.Error.Cause)
}

func TestError_HidesPlainErrors(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, errors.New("dial tcp 10.0.0.1: refused"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Empty(t, resp.Error.Cause)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrSignalNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", core.WrapError(core.ErrSignalNotFound, nil)), http.StatusNotFound},
		{core.ErrInsufficientData, http.StatusUnprocessableEntity},
		{core.ErrConfigInvalid, http.StatusBadRequest},
		{core.ErrCollectorFailed, http.StatusBadGateway},
		{&core.Error{Code: "ANALYSIS_RUNNING"}, http.StatusConflict},
		{core.ErrStorageFailed, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), "%v", tt.err)
	}
}

func TestFromError(t *testing.T) {
	w := httptest.NewRecorder()
	FromError(w, core.ErrSignalNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SIGNAL_NOT_FOUND", resp.Error.Code)
}
