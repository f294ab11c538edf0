// Package middleware holds the global and route-level middleware: request
// ids, tracing, request logging, CORS, authentication (session cookie, Clerk
// bearer token, API key), rate limiting and the global error handler.
package middleware
