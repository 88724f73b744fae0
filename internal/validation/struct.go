package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/apitools/internal/httperr"
)

// Structs validates decoded values through their `validate` struct tags.
// Field paths use the json names of the fields.
type Structs struct {
	v *validator.Validate
}

// NewStructs returns a struct validator.
func NewStructs() *Structs {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return &Structs{v: v}
}

// Struct validates s, reported as the given request property. Failures are
// returned as *httperr.ValidationError.
func (s *Structs) Struct(p Property, value any) error {
	err := s.v.Struct(value)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	failures := make([]httperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		failures = append(failures, httperr.FieldError{
			Property: string(p),
			DataPath: path,
			Keyword:  fe.Tag(),
			Message:  fe.Error(),
		})
	}
	return &httperr.ValidationError{Errors: failures}
}

// BindJSON decodes the JSON body of r into dst and validates it. Decoding
// failures are 400 errors, rule failures validation errors.
func (s *Structs) BindJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return httperr.BadRequest("Request body is empty")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return httperr.BadRequest("Invalid JSON body", httperr.WithCause(fmt.Errorf("%w: %w", ErrDecodeBody, err)))
	}

	return s.Struct(Body, dst)
}
