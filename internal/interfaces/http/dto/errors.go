package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeValidation   = "VALIDATION_FAILED"
)

// domainCodeHTTPStatus maps domain error codes onto HTTP status codes.
// Codes absent from the map fall back on the prefix rules in
// GetHTTPStatus.
var domainCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Uniqueness and write races
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"CODE_TAKEN":           http.StatusConflict,
	"SKU_TAKEN":            http.StatusConflict,
	"ALREADY_CLAIMED":      http.StatusConflict,
	"DUPLICATE_SUPPLIER":   http.StatusConflict,

	// Authorization
	"WRONG_ROLE": http.StatusForbidden,

	// Lifecycle violations, not input problems
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Malformed uploads
	"UNPARSEABLE_SHEET": http.StatusBadRequest,
	"PAST_DATE":         http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Input
// validation codes map to 400; everything else unmapped is treated as a
// business rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
