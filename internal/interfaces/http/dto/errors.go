package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the error envelope. Format: ERR_<DESCRIPTION>

const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Request errors
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Authentication errors
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource errors
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Fulfillment errors
const (
	ErrCodeIllegalTransition         = "ERR_ILLEGAL_TRANSITION"
	ErrCodeAlreadyDelivered          = "ERR_ALREADY_DELIVERED"
	ErrCodeInsufficientStock         = "ERR_INSUFFICIENT_STOCK"
	ErrCodeOverAllocation            = "ERR_OVER_ALLOCATION"
	ErrCodeOverPick                  = "ERR_OVER_PICK"
	ErrCodeOverPack                  = "ERR_OVER_PACK"
	ErrCodeMissingLocationAssignment = "ERR_MISSING_LOCATION_ASSIGNMENT"
	ErrCodeDocumentGeneration        = "ERR_DOCUMENT_GENERATION_FAILED"
	ErrCodeInvalidState              = "ERR_INVALID_STATE"
	ErrCodeBusinessRule              = "ERR_BUSINESS_RULE"
)

const ErrCodeRateLimited = "ERR_RATE_LIMITED"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeIllegalTransition:         http.StatusConflict,
	ErrCodeAlreadyDelivered:          http.StatusConflict,
	ErrCodeInsufficientStock:         http.StatusUnprocessableEntity,
	ErrCodeOverAllocation:            http.StatusUnprocessableEntity,
	ErrCodeOverPick:                  http.StatusUnprocessableEntity,
	ErrCodeOverPack:                  http.StatusUnprocessableEntity,
	ErrCodeMissingLocationAssignment: http.StatusUnprocessableEntity,
	ErrCodeDocumentGeneration:        http.StatusInternalServerError,
	ErrCodeInvalidState:              http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:              http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates domain error codes that do not map one to
// one onto an ERR_ code.
var domainCodeMapping = map[string]string{
	"UNAUTHORIZED":      ErrCodeUnauthorized,
	"VALIDATION_ERROR":  ErrCodeValidation,
	"VALIDATION_ERRORS": ErrCodeValidation,
	"INTERNAL_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// Codes that already carry the prefix are returned unchanged. Unmatched
// INVALID_* and *_NOT_FOUND codes map to input and not found errors; any
// other domain code is a business rule violation.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	prefixed := "ERR_" + code
	if _, ok := ErrorCodeHTTPStatus[prefixed]; ok {
		return prefixed
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return ErrCodeNotFound
	default:
		return ErrCodeBusinessRule
	}
}
