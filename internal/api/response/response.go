// internal/api/response/response.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newthinker/tradebot/internal/core"
)

// Meta is attached to every response. RequestID echoes the X-Request-ID
// header set by the logging middleware.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
	Meta  Meta        `json:"meta"`
}

// statusByCode maps core error codes to HTTP statuses.
var statusByCode = map[string]int{
	core.ErrSignalNotFound.Code:   http.StatusNotFound,
	core.ErrModelNotFound.Code:    http.StatusNotFound,
	core.ErrNoData.Code:           http.StatusNotFound,
	core.ErrInsufficientData.Code: http.StatusUnprocessableEntity,
	core.ErrConfigInvalid.Code:    http.StatusBadRequest,
	core.ErrConfigMissing.Code:    http.StatusBadRequest,
	core.ErrCollectorFailed.Code:  http.StatusBadGateway,
	core.ErrSentimentFailed.Code:  http.StatusBadGateway,
	core.ErrLLMFailed.Code:        http.StatusBadGateway,
	"UNAUTHORIZED":                http.StatusUnauthorized,
	"ANALYSIS_RUNNING":            http.StatusConflict,
}

// StatusFor returns the HTTP status for err: the mapped status of its core
// code, or 500.
func StatusFor(err error) int {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		if status, ok := statusByCode[coreErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

func meta(w http.ResponseWriter) Meta {
	return Meta{
		Timestamp: time.Now().UTC(),
		RequestID: w.Header().Get("X-Request-ID"),
	}
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// JSON writes a success response with data.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, SuccessResponse{Data: data, Meta: meta(w)})
}

// Error writes err with an explicit status. Errors that are not core
// errors are reported as INTERNAL_ERROR without their text.
func Error(w http.ResponseWriter, status int, err error) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}

	write(w, status, ErrorResponse{Error: detail, Meta: meta(w)})
}

// FromError writes err with the status given by StatusFor.
func FromError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
