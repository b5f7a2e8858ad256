package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to suffix-based rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeInternal:   http.StatusInternalServerError,

	// Conflicts
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"DUPLICATE_REQUEST":       http.StatusConflict,
	"DUPLICATE_BATCH":         http.StatusConflict,
	"DUPLICATE_SKU":           http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"FULFILLMENT_FAILED": http.StatusUnprocessableEntity,
	"NO_VALID_ORDERS":    http.StatusUnprocessableEntity,
	"OVER_FULFILLMENT":   http.StatusUnprocessableEntity,
	"INVALID_ASSIGNEE":   http.StatusUnprocessableEntity,
	"NO_ORDERS_SELECTED": http.StatusBadRequest,
	"NO_ITEMS":           http.StatusBadRequest,
	"NO_ORDERS":          http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
