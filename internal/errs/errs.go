// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the HTTP layer is funneled into an *HTTPError so
// clients always receive the same JSON envelope:
//
//	{ "code": "BAD_REQUEST", "message": "...", "status": 400,
//	  "override": true, "errors": [{"field": "email", "error": "is required"}],
//	  "action": null }
package errs
