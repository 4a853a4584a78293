package shared

import "fmt"

// ErrorCategory groups domain errors by the kind of failure they describe.
type ErrorCategory string

const (
	CategoryNotFound      ErrorCategory = "not_found"
	CategoryAlreadyExists ErrorCategory = "already_exists"
	CategoryInvalidValue  ErrorCategory = "invalid_value"
	CategoryRuleViolation ErrorCategory = "rule_violation"
	CategoryStorage       ErrorCategory = "storage"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code     string         `json:"code"`
	Category ErrorCategory  `json:"category"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
	Err      error          `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
// It lets sentinel values match errors carrying different details.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an additional detail entry.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	cp := *e
	cp.Details = details
	return &cp
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Category: categoryForCode(code),
		Message:  message,
	}
}

// NewCategorizedError creates a domain error with an explicit category
func NewCategorizedError(category ErrorCategory, code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Category: category,
		Message:  message,
	}
}

// WrapStorageError wraps an infrastructure failure as a storage domain error
func WrapStorageError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:     code,
		Category: CategoryStorage,
		Message:  message,
		Err:      err,
	}
}

func categoryForCode(code string) ErrorCategory {
	switch code {
	case "NOT_FOUND":
		return CategoryNotFound
	case "ALREADY_EXISTS":
		return CategoryAlreadyExists
	case "STORAGE_FAILURE":
		return CategoryStorage
	default:
		return CategoryInvalidValue
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrStorage       = NewDomainError("STORAGE_FAILURE", "Storage operation failed")
)
