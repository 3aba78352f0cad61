package filter

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField         = errors.New("unknown field")
	ErrInvalidRegex         = errors.New("invalid regex")
	ErrUnparsableExpression = errors.New("unable to parse expression")
)

// SyntaxError reports an expression that could not be parsed.
type SyntaxError struct {
	Expr    string // offending (sub)expression
	Message string // human-readable error message
	Err     error  // sentinel (for errors.Is)
	Cause   error  // underlying error, if any
}

func (e *SyntaxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SyntaxError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// IsSyntaxError reports whether err is (or wraps) a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsUnknownField reports whether err is an unknown-field error.
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}

// IsInvalidRegex reports whether err is an invalid-regex error.
func IsInvalidRegex(err error) bool {
	return errors.Is(err, ErrInvalidRegex)
}
