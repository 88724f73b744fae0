// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors wrapped by the body parsers. Callers can match against
// them with [errors.Is].
var (
	// ErrBodyTooLarge is the cause of 413 responses from the json and
	// urlencoded slots.
	ErrBodyTooLarge = errors.New("request body exceeds the configured limit")

	// ErrMalformedBody is the cause of 400 responses for bodies that do not
	// parse.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrNotObjectOrArray is returned when a JSON body is a bare scalar.
	ErrNotObjectOrArray = errors.New("JSON body must be an object or an array")

	// ErrInvalidGzip is the cause of 400 responses for undecodable gzip bodies.
	ErrInvalidGzip = errors.New("invalid gzip request body")
)
