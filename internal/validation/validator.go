// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validation checks incoming requests against JSON schemas and
// validates decoded structs through their `validate` tags.
//
// Failures are reported as *httperr.ValidationError; the validationErrors
// slot of the final chain renders them as 422 responses.
package validation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xeipuuv/gojsonschema"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/utils"
)

// Property names the part of the request a schema applies to.
type Property string

const (
	Body    Property = "body"
	Query   Property = "query"
	Params  Property = "params"
	Headers Property = "headers"
)

// rootContext prefixes every gojsonschema error context.
const rootContext = "(root)"

// order is the sequence in which request parts are checked.
var order = []Property{Body, Query, Params, Headers}

// Schemas maps request parts to JSON schemas. A schema is either a Go value
// (usually map[string]any), a JSON string or a []byte document.
type Schemas map[Property]any

// Validator builds request validation steps.
type Validator struct {
	// AllErrors reports every failing rule instead of the first one.
	AllErrors bool
}

// New returns a Validator that reports all errors.
func New() *Validator {
	return &Validator{AllErrors: true}
}

type compiled struct {
	property Property
	schema   *gojsonschema.Schema
}

// Validate compiles schemas and returns a step that checks each request
// against them.
func (v *Validator) Validate(schemas Schemas) (chain.Middleware, error) {
	var list []compiled
	for _, p := range order {
		doc, ok := schemas[p]
		if !ok {
			continue
		}

		s, err := gojsonschema.NewSchema(loaderFor(doc))
		if err != nil {
			return chain.Middleware{}, fmt.Errorf("%w for %s: %w", ErrInvalidSchema, p, err)
		}
		list = append(list, compiled{property: p, schema: s})
	}
	for p := range schemas {
		if p != Body && p != Query && p != Params && p != Headers {
			return chain.Middleware{}, fmt.Errorf("%w: %q", ErrUnknownProperty, p)
		}
	}

	return chain.Step("validate", func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		var failures []httperr.FieldError
		for _, c := range list {
			res, err := c.schema.Validate(gojsonschema.NewGoLoader(extract(c.property, r)))
			if err != nil {
				return chain.Fail(fmt.Errorf("validate %s: %w", c.property, err))
			}
			for _, re := range res.Errors() {
				failures = append(failures, fieldError(c.property, re))
				if !v.AllErrors {
					break
				}
			}
			if len(failures) > 0 && !v.AllErrors {
				break
			}
		}

		if len(failures) > 0 {
			return chain.Fail(&httperr.ValidationError{Errors: failures})
		}
		return chain.Next()
	}), nil
}

// MustValidate is like Validate but panics when a schema does not compile.
func (v *Validator) MustValidate(schemas Schemas) chain.Middleware {
	m, err := v.Validate(schemas)
	if err != nil {
		panic(err)
	}
	return m
}

func loaderFor(doc any) gojsonschema.JSONLoader {
	switch d := doc.(type) {
	case string:
		return gojsonschema.NewStringLoader(d)
	case []byte:
		return gojsonschema.NewBytesLoader(d)
	default:
		return gojsonschema.NewGoLoader(d)
	}
}

// extract returns the document validated for property.
func extract(p Property, r *http.Request) any {
	switch p {
	case Body:
		if body, ok := utils.GetBodyFromContext(r.Context()); ok {
			return body
		}
		return map[string]any{}
	case Query:
		out := make(map[string]any)
		for k, vs := range r.URL.Query() {
			if len(vs) == 1 {
				out[k] = vs[0]
				continue
			}
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = v
			}
			out[k] = list
		}
		return out
	case Headers:
		// Lower-cased names, repeated values joined with ", ".
		out := make(map[string]any, len(r.Header))
		for k, vs := range r.Header {
			out[strings.ToLower(k)] = strings.Join(vs, ", ")
		}
		return out
	default:
		out := make(map[string]any)
		if rc := chi.RouteContext(r.Context()); rc != nil {
			for i, k := range rc.URLParams.Keys {
				if k == "*" || i >= len(rc.URLParams.Values) {
					continue
				}
				out[k] = rc.URLParams.Values[i]
			}
		}
		return out
	}
}

func fieldError(p Property, re gojsonschema.ResultError) httperr.FieldError {
	fe := httperr.FieldError{
		Property: string(p),
		DataPath: strings.TrimPrefix(re.Context().String(), rootContext),
		Keyword:  keyword(re.Type()),
		Message:  re.Description(),
	}
	if fe.Keyword == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			fe.MissingProperty = prop
		}
	}
	return fe
}
