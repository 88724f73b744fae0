// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cors parses the CORS origin whitelist read from the environment
// and builds the CORS middleware from it.
//
// The whitelist grammar follows the CORS_ORIGIN_WHITELIST variable:
//
//	unset                         any origin ("*")
//	""                            no Access-Control-Allow-Origin header
//	"true" / "false"              reflect any origin / CORS disabled
//	"https://a.com, /\.b\.com$/"  literals and /regex/ entries
package cors

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// regexOptions are the options every whitelist regex is compiled with.
const regexOptions = regexp2.ECMAScript

// regexTimeout bounds a single origin match.
const regexTimeout = 50 * time.Millisecond

type originKind uint8

const (
	kindWildcard originKind = iota
	kindBool
	kindLiteral
	kindRegex
	kindList
)

// Origin is a parsed CORS origin specification. The zero value is the
// wildcard. Origins are immutable.
type Origin struct {
	kind    originKind
	enabled bool
	literal string
	re      *regexp2.Regexp
	list    []Origin
}

// Wildcard allows every origin.
func Wildcard() Origin { return Origin{kind: kindWildcard} }

// Bool reflects every origin when v is true and disables CORS when false.
func Bool(v bool) Origin { return Origin{kind: kindBool, enabled: v} }

// Literal allows exactly one origin. The empty literal allows none.
func Literal(s string) Origin { return Origin{kind: kindLiteral, literal: s} }

// Regex compiles pattern with ECMAScript semantics.
func Regex(pattern string) (Origin, error) {
	re, err := regexp2.Compile(pattern, regexOptions)
	if err != nil {
		return Origin{}, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	re.MatchTimeout = regexTimeout

	return Origin{kind: kindRegex, re: re}, nil
}

// List allows an origin matched by any entry. Nested lists are flattened.
func List(entries ...Origin) Origin {
	flat := make([]Origin, 0, len(entries))
	for _, e := range entries {
		if e.kind == kindList {
			flat = append(flat, e.list...)
			continue
		}
		flat = append(flat, e)
	}
	return Origin{kind: kindList, list: flat}
}

// ParseWhitelist parses a whitelist value. set reports whether the variable
// was defined at all; an undefined whitelist is the wildcard.
func ParseWhitelist(value string, set bool) (Origin, error) {
	switch {
	case !set:
		return Wildcard(), nil
	case value == "":
		return Literal(""), nil
	case value == "true":
		return Bool(true), nil
	case value == "false":
		return Bool(false), nil
	}

	var entries []Origin
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if len(token) > 2 && strings.HasPrefix(token, "/") && strings.HasSuffix(token, "/") {
			re, err := Regex(token[1 : len(token)-1])
			if err != nil {
				return Origin{}, err
			}
			entries = append(entries, re)
			continue
		}
		entries = append(entries, Literal(token))
	}

	if len(entries) == 1 {
		return entries[0], nil
	}
	return List(entries...), nil
}

// IsWildcard reports whether o allows every origin with "*".
func (o Origin) IsWildcard() bool { return o.kind == kindWildcard }

// IsDisabled reports whether o is the "false" specification.
func (o Origin) IsDisabled() bool { return o.kind == kindBool && !o.enabled }

// IsReflectAll reports whether o is the "true" specification.
func (o Origin) IsReflectAll() bool { return o.kind == kindBool && o.enabled }

// IsEmpty reports whether o is the empty literal.
func (o Origin) IsEmpty() bool { return o.kind == kindLiteral && o.literal == "" }

// Entries returns the members of a list, or o itself for single entries.
func (o Origin) Entries() []Origin {
	if o.kind == kindList {
		return slices.Clone(o.list)
	}
	return []Origin{o}
}

// Allows reports whether a request from origin may receive CORS headers.
// Regex entries that time out do not match.
func (o Origin) Allows(origin string) bool {
	switch o.kind {
	case kindWildcard:
		return true
	case kindBool:
		return o.enabled
	case kindLiteral:
		return o.literal != "" && o.literal == origin
	case kindRegex:
		ok, err := o.re.MatchString(origin)
		return err == nil && ok
	case kindList:
		for _, e := range o.list {
			if e.Allows(origin) {
				return true
			}
		}
	}
	return false
}

// String renders o in whitelist syntax.
func (o Origin) String() string {
	switch o.kind {
	case kindWildcard:
		return "*"
	case kindBool:
		if o.enabled {
			return "true"
		}
		return "false"
	case kindLiteral:
		return o.literal
	case kindRegex:
		return "/" + o.re.String() + "/"
	default:
		parts := make([]string, len(o.list))
		for i, e := range o.list {
			parts[i] = e.String()
		}
		return strings.Join(parts, ",")
	}
}

// Equal reports structural equality. Regex entries compare by pattern; all
// of them share the same options.
func (o Origin) Equal(other Origin) bool {
	if o.kind != other.kind {
		return false
	}

	switch o.kind {
	case kindBool:
		return o.enabled == other.enabled
	case kindLiteral:
		return o.literal == other.literal
	case kindRegex:
		return o.re.String() == other.re.String()
	case kindList:
		return slices.EqualFunc(o.list, other.list, Origin.Equal)
	default:
		return true
	}
}
