package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound = "CATEGORY_NOT_FOUND"
	ErrCodeDuplicateReview  = "DUPLICATE_REVIEW"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure that callers can distinguish
// from infrastructure errors.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCategoryNotFound = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrDuplicateReview  = NewDomainError(ErrCodeDuplicateReview, "Product already reviewed by this user")
	ErrInvalidRating    = NewDomainError(ErrCodeInvalidInput, "Rating must be an integer between 1 and 5")
	ErrConflict         = NewDomainError(ErrCodeConflict, "Concurrent update conflict, please retry")
)
