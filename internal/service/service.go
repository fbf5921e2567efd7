// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// requests from the handler, enforces domain rules and coordinates
// repository calls.
package service
