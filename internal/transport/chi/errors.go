package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/groupmatch/internal/domain"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeConfiguration    ErrorCode = "configuration_error"
	CodeBudgetExceeded   ErrorCode = "budget_exceeded"
	CodeBackend          ErrorCode = "backend_error"
	CodeTimeout          ErrorCode = "timeout"
	CodeInternal         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrToolArgument, http.StatusBadRequest, CodeValidationFailed, ""),
		sentinelHandler(domain.ErrConfiguration, http.StatusInternalServerError, CodeConfiguration,
			domain.ErrConfiguration.Error()),
		sentinelHandler(domain.ErrBudgetExceeded, http.StatusTooManyRequests, CodeBudgetExceeded,
			domain.ErrBudgetExceeded.Error()),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout,
			"the assistant took too long to answer"),
		sentinelHandler(domain.ErrBackendTransport, http.StatusBadGateway, CodeBackend,
			domain.ErrBackendTransport.Error()),
	}
}

// sentinelHandler matches a single sentinel. An empty msg exposes err's own message,
// which is only safe for caller-input errors.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		message := msg
		if message == "" {
			message = clientMessage(err)
		}
		writeError(w, status, code, message)
		return true
	}
}

// clientMessage returns the argument reason without internal wrapping.
func clientMessage(err error) string {
	var argErr *domain.ToolArgumentError
	if errors.As(err, &argErr) {
		return argErr.Reason
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
