package outline

import "fmt"

// ErrorCode classifies outline failures.
type ErrorCode string

const (
	// CodeInvalidRoot: the root is missing, not an element, hidden, or not a
	// sectioning element.
	CodeInvalidRoot ErrorCode = "invalid-root"
	// CodeInvalidOptions: the options are malformed or contain an unknown key.
	CodeInvalidOptions ErrorCode = "invalid-options"
	// CodeInvalidHTML: a heading contains a sectioning or heading element.
	CodeInvalidHTML ErrorCode = "invalid-html"
	// CodeInvariant: the engine's bookkeeping contradicts itself. Always a bug.
	CodeInvariant ErrorCode = "invariant-violated"
)

// Error is returned (or, for CodeInvariant, panicked) by the engine.
type Error struct {
	Code    ErrorCode
	Message string
	// Path locates the offending node below the root, when known.
	Path string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidRoot    = &Error{Code: CodeInvalidRoot, Message: "invalid root"}
	ErrInvalidOptions = &Error{Code: CodeInvalidOptions, Message: "invalid options"}
	ErrInvalidHTML    = &Error{Code: CodeInvalidHTML, Message: "invalid html"}
	ErrInvariant      = &Error{Code: CodeInvariant, Message: "invariant violated"}
)

func newError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}
