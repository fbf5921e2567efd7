// Package model defines the hierarchy entities, the structured document
// type stored in jsonb columns, and the request payloads accepted by the API.
package model
