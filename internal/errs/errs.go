// Package errs defines the error shapes returned to API clients.
//
// HTTPError is serialized as-is by the global error handler, so every
// failure reaches the client with the same JSON structure.
package errs
