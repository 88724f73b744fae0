package validation

import "errors"

var (
	ErrInvalidSchema   = errors.New("invalid JSON schema")
	ErrUnknownProperty = errors.New("unknown request property")
	ErrDecodeBody      = errors.New("failed to decode request body")
)
