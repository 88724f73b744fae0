// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns a handler intended for [chi.Mux.MethodNotAllowed].
//
// Chi answers 405 when a path matches a route whose handlers do not cover
// the method. This handler hides the route instead: the request is passed
// to unmatched, which lets the final chain answer 404. When the method is
// in fact registered for the exact pattern, the request is served by the
// router again.
//
// Only exact pattern matches are considered; parameterised or wildcard
// segments are not expanded during this check.
func CheckHTTPMethod(router chi.Router, unmatched http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if methodRegistered(router, r.URL.Path, r.Method) {
			router.ServeHTTP(w, r)
			return
		}

		unmatched(w, r)
	}
}

func methodRegistered(router chi.Routes, path, method string) bool {
	for _, route := range router.Routes() {
		if route.Pattern != path {
			continue
		}
		_, ok := route.Handlers[method]
		return ok
	}
	return false
}
