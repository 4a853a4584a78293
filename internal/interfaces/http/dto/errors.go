package dto

import (
	"net/http"

	"github.com/insurance/coverage/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep their own codes.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// CategoryHTTPStatus maps domain error categories to HTTP status codes
var CategoryHTTPStatus = map[shared.ErrorCategory]int{
	shared.CategoryNotFound:      http.StatusNotFound,
	shared.CategoryAlreadyExists: http.StatusConflict,
	shared.CategoryInvalidValue:  http.StatusUnprocessableEntity,
	shared.CategoryRuleViolation: http.StatusUnprocessableEntity,
	shared.CategoryStorage:       http.StatusInternalServerError,
}

// StatusForCategory returns the HTTP status for a domain error category.
// Unknown categories map to 500.
func StatusForCategory(category shared.ErrorCategory) int {
	if status, ok := CategoryHTTPStatus[category]; ok {
		return status
	}
	return http.StatusInternalServerError
}
