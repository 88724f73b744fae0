// Package http implements the HTTP conventions layered around an application.
//
// A [Composer] assembles two ordered middleware chains. The initial chain
// runs before routing (security headers, HTTPS enforcement, CORS, request
// logging, body parsing). The final chain runs after routing (404, validation
// error translation, error rendering). Each slot can be replaced or disabled
// through [Options].
//
// The package also provides the response writer used to observe responses,
// the error renderer and the default routes.
package http
