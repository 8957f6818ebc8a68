package customerr

import "github.com/pkg/errors"

// Sentinels for errors.Is checks. Each concrete error type below matches its sentinel.
var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAccess            = errors.New("access denied")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrStorage           = errors.New("storage error")
)

// ValidationError reports a malformed domain value or operation argument.
// Argument errors also match ErrInvalidArgument.
type ValidationError struct {
	Field    string
	Reason   string
	argument bool
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func NewInvalidArgument(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, argument: true}
}

func (e *ValidationError) Error() string {
	if e.argument {
		return "invalid argument " + e.Field + ": " + e.Reason
	}
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.argument && target == ErrInvalidArgument)
}

type AccessError struct {
	Err string
}

func (e *AccessError) Error() string {
	return e.Err
}

func (e *AccessError) Is(target error) bool {
	return target == ErrAccess
}

type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string {
	return "an account named " + e.Username + " already exists or storage is unavailable"
}

func (e *DuplicateUsernameError) Is(target error) bool {
	return target == ErrDuplicateUsername
}

// StorageError wraps a backend failure during read, update or delete.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op + ": storage error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
