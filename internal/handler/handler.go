// Package handler is the HTTP entry point for business logic.
//
// Handlers receive requests bound and validated by the validation package,
// call the service layer and write the response.
package handler
