// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrAlreadyListening is returned by Listen on a bound server.
	ErrAlreadyListening = errors.New("server is already listening")

	// ErrNotListening is returned by RunServer before Listen.
	ErrNotListening = errors.New("server is not listening")
)
