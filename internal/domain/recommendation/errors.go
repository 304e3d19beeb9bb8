package recommendation

import (
	"errors"
	"net/http"

	"github.com/yanqian/lawn-advisor/internal/infra/llm/anthropic"
)

// ErrorKind is the closed set of failure categories produced by the pipeline.
type ErrorKind string

const (
	KindValidation        ErrorKind = "ValidationError"
	KindAuth              ErrorKind = "AuthError"
	KindRateLimit         ErrorKind = "RateLimitError"
	KindNetwork           ErrorKind = "NetworkError"
	KindMalformedResponse ErrorKind = "MalformedResponseError"
	KindUnknown           ErrorKind = "UnknownError"
)

const (
	upstreamRateLimit  = "rate_limit_error"
	upstreamAuth       = "authentication_error"
	upstreamPermission = "permission_error"

	msgNetwork           = "Network error occurred"
	msgMalformedResponse = "Invalid response format"
	msgUnknown           = "Unknown error occurred"
)

// Error is the classified pipeline failure. Type mirrors the upstream error
// type when one exists and the kind name otherwise.
type Error struct {
	Kind    ErrorKind
	Type    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Type: string(kind), Message: message, Err: err}
}

// KindOf reports the kind of a pipeline error. Errors that were never
// classified count as UnknownError; nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// classify maps any failure surfaced by the completion client onto an Error.
// Undecodable bodies are reported as network failures, matching transport errors.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:    upstreamKind(apiErr.StatusCode, apiErr.Type),
			Type:    apiErr.Type,
			Message: apiErr.Message,
			Err:     err,
		}
	}

	var transportErr *anthropic.TransportError
	if errors.As(err, &transportErr) || errors.Is(err, anthropic.ErrUndecodableBody) {
		return newError(KindNetwork, msgNetwork, err)
	}

	return newError(KindUnknown, msgUnknown, err)
}

// upstreamKind keys rate limiting on the error type alone: a 429 carrying any
// other type stays UnknownError so its message is never shown to callers.
func upstreamKind(status int, errType string) ErrorKind {
	switch errType {
	case upstreamRateLimit:
		return KindRateLimit
	case upstreamAuth, upstreamPermission:
		return KindAuth
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	}
	return KindUnknown
}
