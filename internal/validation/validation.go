// Package validation binds and validates request payloads.
//
// Rules live in struct tags and are enforced with go-playground/validator.
// Failures are converted into field-level errors the client can act on.
package validation
