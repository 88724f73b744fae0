// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package httperr implements structured ("Boom-style") HTTP errors.
//
// An [Error] carries a status code in the 4xx/5xx range, response headers
// and a JSON payload of the form
//
//	{"statusCode": 404, "error": "Not Found", "message": "Not Found"}
//
// Every failure that reaches the error path of a chain is converted into an
// [Error] by [Normalize], which never fails. Errors are tagged with a [Kind]
// so callers branch on the tag instead of inspecting concrete types.
package httperr

import (
	"maps"
	"net/http"
)

// Kind is the discriminant of an HTTP error.
type Kind uint8

const (
	// KindServer is any 5xx failure. Stack traces are kept in logs.
	KindServer Kind = iota
	// KindClient is any 4xx failure that is not one of the fixed kinds below.
	KindClient
	// KindValidation is a request validation failure, always rendered as 422.
	KindValidation
	// KindNotFound is an unmatched route, always rendered as 404.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "ClientError"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	default:
		return "ServerError"
	}
}

// Kinded is implemented by errors that declare their own Kind.
type Kinded interface {
	Kind() Kind
}

// internalMessage replaces the message of plain 500 errors so internals are
// not leaked to clients.
const internalMessage = "An internal server error occurred"

// Payload is the JSON body rendered for an [Error].
type Payload struct {
	StatusCode       int     `json:"statusCode"`
	Error            string  `json:"error"`
	Message          string  `json:"message"`
	ValidationErrors *Detail `json:"validationErrors,omitempty"`
	ID               string  `json:"id,omitempty"`
}

// Error is a structured HTTP error. Its fields are only reachable through
// accessors; derived values are produced by copy, never by mutation.
type Error struct {
	statusCode int
	headers    map[string]string
	message    string
	kind       Kind
	detail     *Detail
	requestID  string
	cause      error
}

// Option customizes an [Error] at construction time.
type Option func(*Error)

// WithHeader adds a response header rendered with the error.
func WithHeader(key, value string) Option {
	return func(e *Error) {
		e.headers[key] = value
	}
}

// WithCause records the underlying error. It is exposed through Unwrap.
func WithCause(err error) Option {
	return func(e *Error) {
		e.cause = err
	}
}

// New returns an [Error] with the given status code and message. Status
// codes outside [400,599] are replaced with 500. An empty message falls back
// to the reason phrase.
func New(statusCode int, message string, opts ...Option) *Error {
	if statusCode < http.StatusBadRequest || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}

	e := &Error{
		statusCode: statusCode,
		headers:    make(map[string]string),
		message:    message,
		kind:       kindForStatus(statusCode),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// reason returns the reason phrase of statusCode, "Unknown" for codes the
// standard library does not name.
func reason(statusCode int) string {
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "Unknown"
}

func kindForStatus(statusCode int) Kind {
	switch {
	case statusCode == http.StatusNotFound:
		return KindNotFound
	case statusCode >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindClient
	}
}

// BadRequest returns a 400 error.
func BadRequest(message string, opts ...Option) *Error {
	return New(http.StatusBadRequest, message, opts...)
}

// Unauthorized returns a 401 error. A non-empty scheme is advertised in the
// WWW-Authenticate header.
func Unauthorized(message, scheme string, opts ...Option) *Error {
	if scheme != "" {
		opts = append([]Option{WithHeader("WWW-Authenticate", scheme)}, opts...)
	}
	return New(http.StatusUnauthorized, message, opts...)
}

// Forbidden returns a 403 error.
func Forbidden(message string, opts ...Option) *Error {
	return New(http.StatusForbidden, message, opts...)
}

// NotFound returns the 404 error used for unmatched routes.
func NotFound(opts ...Option) *Error {
	return New(http.StatusNotFound, reason(http.StatusNotFound), opts...)
}

// MethodNotAllowed returns a 405 error listing the allowed methods.
func MethodNotAllowed(message, allow string, opts ...Option) *Error {
	if allow != "" {
		opts = append([]Option{WithHeader("Allow", allow)}, opts...)
	}
	return New(http.StatusMethodNotAllowed, message, opts...)
}

// EntityTooLarge returns a 413 error.
func EntityTooLarge(message string, opts ...Option) *Error {
	return New(http.StatusRequestEntityTooLarge, message, opts...)
}

// TooManyRequests returns a 429 error.
func TooManyRequests(message string, opts ...Option) *Error {
	return New(http.StatusTooManyRequests, message, opts...)
}

// Internal returns a 500 error wrapping cause.
func Internal(cause error, opts ...Option) *Error {
	return New(http.StatusInternalServerError, "", append([]Option{WithCause(cause)}, opts...)...)
}

// NotImplemented returns a 501 error.
func NotImplemented(message string, opts ...Option) *Error {
	return New(http.StatusNotImplemented, message, opts...)
}

// BadGateway returns a 502 error.
func BadGateway(message string, opts ...Option) *Error {
	return New(http.StatusBadGateway, message, opts...)
}

// Error implements the error interface with the raw message, falling back to
// the cause and then to the reason phrase.
func (e *Error) Error() string {
	switch {
	case e.message != "":
		return e.message
	case e.cause != nil:
		return e.cause.Error()
	default:
		return reason(e.statusCode)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error discriminant.
func (e *Error) Kind() Kind {
	return e.kind
}

// StatusCode returns the HTTP status code.
func (e *Error) StatusCode() int {
	return e.statusCode
}

// Headers returns a copy of the headers rendered with the error.
func (e *Error) Headers() map[string]string {
	return maps.Clone(e.headers)
}

// RequestID returns the request identifier attached with WithRequestID.
func (e *Error) RequestID() string {
	return e.requestID
}

// Detail returns the field-level validation detail, nil for other kinds.
func (e *Error) Detail() *Detail {
	return e.detail
}

// IsServer reports whether the error is a 5xx failure.
func (e *Error) IsServer() bool {
	return e.statusCode >= http.StatusInternalServerError
}

// WithRequestID returns a copy of e carrying the request identifier id.
func (e *Error) WithRequestID(id string) *Error {
	cp := *e
	cp.headers = maps.Clone(e.headers)
	cp.requestID = id
	return &cp
}

// Payload returns the JSON body for the error.
func (e *Error) Payload() Payload {
	message := e.message
	if e.statusCode == http.StatusInternalServerError {
		message = internalMessage
	} else if message == "" {
		message = reason(e.statusCode)
	}

	return Payload{
		StatusCode:       e.statusCode,
		Error:            reason(e.statusCode),
		Message:          message,
		ValidationErrors: e.detail,
		ID:               e.requestID,
	}
}
