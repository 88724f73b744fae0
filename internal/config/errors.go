package config

import "errors"

// Errors returned while loading or validating the configuration.
var (
	// ErrInvalidPort indicates a port outside 0..65535.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidEnvironment indicates an empty or malformed environment name.
	ErrInvalidEnvironment = errors.New("invalid environment name")
	// ErrInvalidBodyLimit indicates a negative body limit.
	ErrInvalidBodyLimit = errors.New("invalid body limit")
	// ErrInvalidDotenv indicates a dotenv file that could not be parsed.
	ErrInvalidDotenv = errors.New("invalid dotenv file")
	// ErrInvalidBundle indicates a config bundle that could not be decoded.
	ErrInvalidBundle = errors.New("invalid config bundle")
)
