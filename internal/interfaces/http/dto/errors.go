package dto

import (
	"net/http"

	"github.com/taskflow/backend/internal/domain/shared"
)

// Transport-level error codes
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// HTTPStatus maps a domain error code to an HTTP status code
func HTTPStatus(code string) int {
	switch code {
	case shared.CodeNotFound:
		return http.StatusNotFound
	case shared.CodeAlreadyExists, shared.CodeInvalidTransition, shared.CodeConcurrencyConflict:
		return http.StatusConflict
	case shared.CodeInvalidArgument, shared.CodeUnsupportedCycle, ErrCodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
