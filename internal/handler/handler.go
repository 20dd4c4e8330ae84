// Package handler is the HTTP layer.
//
// Each handler binds and validates a request type, calls the matching
// service, and maps the result to its DTO. Domain errors are translated to
// errs.HTTPError here; anything else is left to the global error handler.
package handler
