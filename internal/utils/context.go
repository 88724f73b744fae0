// Package utils provides general-purpose helper utilities
// used across different parts of apitools.
// Includes tools for working with context, type-safe keys,
// HTTP response writing and request identifier generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

var (
	// RequestIDCtxKey is the key used to store the request identifier
	// assigned by the logger slot.
	RequestIDCtxKey = contextKey("requestID")

	// BodyCtxKey is the key used to store the decoded request body produced
	// by the json and urlencoded slots.
	BodyCtxKey = contextKey("body")
)

// WithRequestID returns a copy of ctx carrying the request identifier id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDCtxKey, id)
}

// GetRequestIDFromContext retrieves the request identifier from the context.
//
// Returns the identifier and an ok flag:
//   - ok == true: value is found, is a string and is not empty
//   - ok == false: value is missing or has an unexpected type
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDCtxKey).(string)
	return id, ok && id != ""
}

// WithBody returns a copy of ctx carrying a decoded request body.
func WithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, BodyCtxKey, body)
}

// GetBodyFromContext retrieves the decoded request body from the context.
// ok is false when no body parser stored anything.
func GetBodyFromContext(ctx context.Context) (any, bool) {
	body := ctx.Value(BodyCtxKey)
	return body, body != nil
}
