package model

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the review state of a hierarchy.
type Status string

const (
	StatusInDraft  Status = "in-draft"
	StatusApproved Status = "approved"
)

// DefaultVersion is stored when a hierarchy is created without a version.
const DefaultVersion = "v0"

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInDraft, StatusApproved:
		return true
	default:
		return false
	}
}

// HierarchyMetadata is the envelope describing a hierarchy's provenance and review state.
type HierarchyMetadata struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserInput    Document  `json:"user_input" db:"user_input"`
	Version      string    `json:"version" db:"version"`
	Status       Status    `json:"status" db:"status"`
	UserFeedback *string   `json:"user_feedback" db:"user_feedback"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HierarchyData is one payload attached to a metadata row. Data holds any
// JSON value, kept as the compact bytes stored in the jsonb column.
type HierarchyData struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	MetadataID uuid.UUID       `json:"metadata_id" db:"metadata_id"`
	Data       json.RawMessage `json:"data" db:"data"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// Hierarchy is a metadata row together with all of its data rows, newest first.
type Hierarchy struct {
	Metadata *HierarchyMetadata `json:"metadata"`
	Data     []HierarchyData    `json:"data"`
}

// CreatedHierarchy is returned by the create operation.
type CreatedHierarchy struct {
	Metadata *HierarchyMetadata `json:"metadata"`
	Data     *HierarchyData     `json:"data"`
}

// CreateMetadataParams holds the columns supplied on insert.
type CreateMetadataParams struct {
	UserInput    Document
	Version      string
	Status       Status
	UserFeedback *string
}

// MetadataFilter narrows a listing by equality. Nil fields are ignored.
type MetadataFilter struct {
	Status  *Status
	Version *string
}

// MetadataUpdate carries the fields to change. Nil fields are left untouched.
// ClearUserFeedback sets user_feedback back to NULL and is ignored when
// UserFeedback is set.
type MetadataUpdate struct {
	Status            *Status
	UserFeedback      *string
	ClearUserFeedback bool
	Version           *string
}

// IsEmpty reports whether no field was supplied.
func (u MetadataUpdate) IsEmpty() bool {
	return u.Status == nil && u.UserFeedback == nil && !u.ClearUserFeedback && u.Version == nil
}

// MetadataPage is one page of a listing. Total counts every matching row.
type MetadataPage struct {
	Items  []HierarchyMetadata
	Total  int
	Limit  int
	Offset int
}

// Pagination is the pagination block of a list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total rows split into pages of limit.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ListResponse is the body of the list endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
