// Package errs defines the error shapes returned to API clients.
//
// Handlers, services and repositories return *HTTPError for anything with a
// known client-facing status (validation, not found). Lower-level failures
// (driver errors, malformed documents) travel as ordinary wrapped errors and
// are translated by the global error handler.
package errs
