package symbolic

import "fmt"

// ErrInvalidConfig indicates that the provided configuration is invalid.
// This is caught during matcher construction.
var ErrInvalidConfig = &Error{
	Kind:    InvalidConfig,
	Message: "invalid matcher configuration",
}

// ErrUnsupportedAlphabet indicates that the configuration names an alphabet
// representation the matcher cannot build.
var ErrUnsupportedAlphabet = &Error{
	Kind:    UnsupportedConfig,
	Message: "unsupported alphabet",
}

// ErrInternal indicates that a matcher invariant was violated during a
// search. The search is aborted; no partial result is returned.
var ErrInternal = &Error{
	Kind:    InternalError,
	Message: "internal matcher error",
}

// ErrorKind classifies matcher errors into categories
type ErrorKind uint8

const (
	// InvalidConfig indicates configuration validation failed
	InvalidConfig ErrorKind = iota

	// UnsupportedConfig indicates a well-formed but unsupported setting,
	// such as an unknown alphabet kind
	UnsupportedConfig

	// InternalError indicates an invariant violation inside a search, such
	// as a match end with no reachable match start
	InternalError
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case UnsupportedConfig:
		return "UnsupportedConfig"
	case InternalError:
		return "InternalError"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error represents an error that occurred while building or running a matcher
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// internalError reports an invariant violation at a position.
func internalError(format string, args ...any) error {
	return &Error{
		Kind:    InternalError,
		Message: fmt.Sprintf(format, args...),
	}
}
