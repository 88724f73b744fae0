package cors

import "errors"

// ErrInvalidPattern is returned when a /regex/ whitelist entry does not compile.
var ErrInvalidPattern = errors.New("invalid CORS origin pattern")
