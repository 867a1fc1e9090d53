// Package httpmw provides HTTP middleware for the public blog server.
//
// httpserver.NewHandler composes them outermost first: security headers,
// panic recovery, request ID, client IP, rate limiting, tracing, content
// headers, metrics, request logger, then the chi router with route
// annotation and the access log.
//
// Query strings, user agents and other client supplied headers are kept
// out of the logs.
package httpmw
