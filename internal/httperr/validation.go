package httperr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ValidationMessage is the message rendered for every validation failure.
const ValidationMessage = "Validation Error"

// keywordRequired is the rule keyword whose path is extended with the name
// of the missing property.
const keywordRequired = "required"

// FieldError is one failing rule reported by a request validator.
type FieldError struct {
	// Property is the request part that was validated ("body", "query", "params").
	Property string
	// DataPath locates the failing value inside Property, dot separated.
	// A leading dot is tolerated.
	DataPath string
	// Keyword names the failing rule ("required", "type", "minLength", ...).
	Keyword string
	// MissingProperty is the absent property name for "required" failures.
	MissingProperty string
	// Message is the validator's human-readable description.
	Message string
}

// Path returns the canonical dotted path of the failure:
// <property>.<dataPath>, extended with .<missingProperty> for "required".
// Empty segments are skipped.
func (f FieldError) Path() string {
	parts := make([]string, 0, 3)
	if f.Property != "" {
		parts = append(parts, f.Property)
	}
	if dp := strings.TrimPrefix(f.DataPath, "."); dp != "" {
		parts = append(parts, dp)
	}
	if f.Keyword == keywordRequired && f.MissingProperty != "" {
		parts = append(parts, f.MissingProperty)
	}
	return strings.Join(parts, ".")
}

// ValidationError reports that a request did not satisfy its schema.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:")
	for i, fe := range e.Errors {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, " %s (%s)", fe.Path(), fe.Keyword)
	}
	return b.String()
}

// Kind tags the error as a validation failure.
func (e *ValidationError) Kind() Kind {
	return KindValidation
}

// Detail groups the failures by path.
func (e *ValidationError) Detail() *Detail {
	d := &Detail{keywords: make(map[string][]string)}
	for _, fe := range e.Errors {
		d.add(fe.Path(), fe.Keyword)
	}
	return d
}

// Validation converts a [ValidationError] into the 422 [Error] rendered to
// clients, whatever status the input may have implied.
func Validation(ve *ValidationError, opts ...Option) *Error {
	e := New(http.StatusUnprocessableEntity, ValidationMessage, append([]Option{WithCause(ve)}, opts...)...)
	e.kind = KindValidation
	e.detail = ve.Detail()
	return e
}

// Detail maps validation paths to the keywords of the rules that failed
// there. Paths keep their first-seen order and keywords keep duplicates.
type Detail struct {
	paths    []string
	keywords map[string][]string
}

func (d *Detail) add(path, keyword string) {
	if _, ok := d.keywords[path]; !ok {
		d.paths = append(d.paths, path)
	}
	d.keywords[path] = append(d.keywords[path], keyword)
}

// Paths returns the failing paths in insertion order.
func (d *Detail) Paths() []string {
	return slices.Clone(d.paths)
}

// Keywords returns the failing rule keywords recorded for path.
func (d *Detail) Keywords(path string) []string {
	return slices.Clone(d.keywords[path])
}

// Map returns the detail as a plain map.
func (d *Detail) Map() map[string][]string {
	out := make(map[string][]string, len(d.paths))
	for _, p := range d.paths {
		out[p] = slices.Clone(d.keywords[p])
	}
	return out
}

// Len returns the number of distinct paths.
func (d *Detail) Len() int {
	return len(d.paths)
}

// MarshalJSON renders the detail as an object whose keys follow insertion
// order.
func (d *Detail) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range d.paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.keywords[p])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
