package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/deppfellow/hierarchy-api/internal/validation"
	"github.com/google/uuid"
)

// Listing bounds. MaxPage keeps (page-1)*limit well inside an int64 OFFSET.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = math.MaxInt32
)

// IsNullJSON reports whether raw is absent, blank or the literal null.
func IsNullJSON(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// HierarchyIDParam binds the :id path parameter.
type HierarchyIDParam struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

// MetadataID returns the bound id. Only call it after validation passed.
func (p HierarchyIDParam) MetadataID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

// ------------------------------------------------------------

type CreateHierarchyRequest struct {
	UserInput    json.RawMessage `json:"userInput" validate:"required"`
	Version      *string         `json:"version" validate:"omitnil,min=1,max=50"`
	Data         json.RawMessage `json:"data" validate:"required"`
	UserFeedback *string         `json:"userFeedback" validate:"omitnil,max=5000"`
	Status       *Status         `json:"status" validate:"omitnil,oneof=in-draft approved"`
}

func (r *CreateHierarchyRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var customErrors validation.CustomValidationErrors
	if IsNullJSON(r.UserInput) {
		customErrors = append(customErrors, validation.CustomValidationError{Field: "userInput", Message: "is required"})
	}
	if IsNullJSON(r.Data) {
		customErrors = append(customErrors, validation.CustomValidationError{Field: "data", Message: "is required"})
	}
	if len(customErrors) > 0 {
		return customErrors
	}

	return nil
}

// ------------------------------------------------------------

type GetHierarchyRequest struct {
	HierarchyIDParam
}

func (r *GetHierarchyRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

type UpdateStatusRequest struct {
	HierarchyIDParam
	Status Status `json:"status" validate:"required,oneof=in-draft approved"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// NullString is a JSON string field that tells an absent key apart from an
// explicit null. Set is true whenever the key was present.
type NullString struct {
	Set   bool
	Value *string
}

func (n *NullString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// MaxUserFeedbackLength bounds user_feedback in characters.
const MaxUserFeedbackLength = 5000

type UpdateMetadataRequest struct {
	HierarchyIDParam
	Status       *Status    `json:"status" validate:"omitnil,oneof=in-draft approved"`
	UserFeedback NullString `json:"userFeedback"`
	Version      *string    `json:"version" validate:"omitnil,min=1,max=50"`
}

func (r *UpdateMetadataRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if v := r.UserFeedback.Value; v != nil && utf8.RuneCountInString(*v) > MaxUserFeedbackLength {
		return validation.CustomValidationErrors{{
			Field:   "userFeedback",
			Message: fmt.Sprintf("must not exceed %d characters", MaxUserFeedbackLength),
		}}
	}

	return nil
}

// Update returns the supplied fields as a MetadataUpdate. An explicit null
// userFeedback clears the stored feedback.
func (r *UpdateMetadataRequest) Update() MetadataUpdate {
	return MetadataUpdate{
		Status:            r.Status,
		UserFeedback:      r.UserFeedback.Value,
		ClearUserFeedback: r.UserFeedback.Set && r.UserFeedback.Value == nil,
		Version:           r.Version,
	}
}

// ------------------------------------------------------------

// AddDataRequest takes the whole request body as the document to attach.
type AddDataRequest struct {
	HierarchyIDParam
	Data json.RawMessage
}

// UnmarshalJSON keeps the raw body instead of decoding it into fields.
func (r *AddDataRequest) UnmarshalJSON(b []byte) error {
	r.Data = append(r.Data[:0], b...)
	return nil
}

func (r *AddDataRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if IsNullJSON(r.Data) {
		return validation.CustomValidationErrors{{Field: "body", Message: "is required"}}
	}

	return nil
}

// ------------------------------------------------------------

type ListHierarchiesRequest struct {
	Status  Status `query:"status" validate:"omitempty,oneof=in-draft approved"`
	Version string `query:"version" validate:"omitempty,max=50"`
	Page    int    `query:"page" validate:"omitempty,min=1,max=2147483647"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *ListHierarchiesRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.Page == 0 {
		r.Page = DefaultPage
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}

	return nil
}

// Filter returns the supplied filters.
func (r *ListHierarchiesRequest) Filter() MetadataFilter {
	var filter MetadataFilter
	if r.Status != "" {
		status := r.Status
		filter.Status = &status
	}
	if r.Version != "" {
		version := r.Version
		filter.Version = &version
	}
	return filter
}

// Offset is the number of rows skipped before the requested page.
// Validate bounds Page and Limit so the product cannot overflow.
func (r *ListHierarchiesRequest) Offset() int {
	return int(int64(r.Page-1) * int64(r.Limit))
}

// ------------------------------------------------------------

type DeleteHierarchyRequest struct {
	HierarchyIDParam
}

func (r *DeleteHierarchyRequest) Validate() error {
	return validation.Struct(r)
}
