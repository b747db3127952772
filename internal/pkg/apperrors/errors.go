package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrBadRequest    = errors.New("bad request")
	ErrMissingInput  = errors.New("missing input")
	ErrInvalidUpload = errors.New("invalid upload")
)

// Seating errors
var (
	ErrRoomsMissing      = NewCustomError(ErrMissingInput, "rooms have not been uploaded")
	ErrTimetableMissing  = NewCustomError(ErrMissingInput, "timetable has not been uploaded")
	ErrAllocationMissing = NewCustomError(ErrMissingInput, "Seating not generated yet")
	ErrNothingAllocated  = NewCustomError(ErrMissingInput, "allocation produced no seat assignments")

	// ErrCapacityExceeded is returned when strict allocation is enabled and
	// at least one student could not be given a seat.
	ErrCapacityExceeded = errors.New("seating capacity exceeded")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewInvalidUploadError reports a rejected upload; details carry per-row or per-column reasons
func NewInvalidUploadError(message string, details map[string]interface{}) error {
	return (&CustomError{
		Err:     ErrInvalidUpload,
		Message: message,
	}).WithDetails(details)
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// MessageOf returns the user-facing message of err: the outermost
// CustomError message when present, otherwise err.Error().
func MessageOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}

// DetailsOf returns the details attached to the outermost CustomError, if any.
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
