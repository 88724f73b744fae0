package httperr

import (
	"errors"
	"net/http"
)

// statusCoder is implemented by errors that carry their own HTTP status.
type statusCoder interface {
	StatusCode() int
}

// KindOf returns the Kind declared anywhere in err's chain. Undeclared
// errors are server errors.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindServer
}

// Normalize converts any error into a renderable [Error]. It never fails:
//   - validation failures become 422 "Validation Error" with field detail,
//     whatever status they carried;
//   - an [Error] in the chain is returned as is;
//   - an error exposing StatusCode() keeps that status;
//   - everything else, nil included, becomes a 500 wrapping err.
func Normalize(err error) *Error {
	if err == nil {
		return Internal(nil)
	}

	if KindOf(err) == KindValidation {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return Validation(ve)
		}
		var he *Error
		if errors.As(err, &he) && he.detail != nil {
			return he
		}
		return Validation(&ValidationError{}, WithCause(err))
	}

	var he *Error
	if errors.As(err, &he) {
		return he
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return New(sc.StatusCode(), err.Error(), WithCause(err))
	}

	return New(http.StatusInternalServerError, err.Error(), WithCause(err))
}
