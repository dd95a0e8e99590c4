package services

import "errors"

// Service-level errors
var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrSavedQueryNotFound = errors.New("saved query not found")
	ErrInvalidBoothList   = errors.New("booth numbers must be a comma-separated list of integers")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
	ErrCrossGroupMove     = errors.New("saved queries can only be moved within their group")
	ErrInvalidInput       = errors.New("invalid input")
)

// ExecutionError carries a database error raised by an operator-supplied
// statement. Its text is safe to return to the operator.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
