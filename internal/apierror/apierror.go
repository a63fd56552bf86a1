// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// Kind classifies a service error so the handler layer can pick the right
// HTTP status without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvariant
)

// Error carries a user-facing message plus its classification. Services wrap
// business failures in one of the constructors below; anything unclassified
// surfaces as a generic 500.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Msg: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Invariant(msg string) *Error  { return &Error{Kind: KindInvariant, Msg: msg} }

// KindOf extracts the classification from err, unwrapping as needed.
// Plain errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
