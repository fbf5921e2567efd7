package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("Hierarchy not found", true, nil))

	assert.True(t, errors.Is(err, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "NOT_FOUND", httpErr.Code)
}

func TestHTTPError_WithMessage(t *testing.T) {
	base := NewBadRequestError("original", true, nil, []FieldError{{Field: "status", Error: "is required"}}, nil)
	copied := base.WithMessage("changed")

	assert.Equal(t, "original", base.Message)
	assert.Equal(t, "changed", copied.Message)
	assert.Equal(t, base.Errors, copied.Errors)
	assert.Equal(t, base.Status, copied.Status)
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "HIERARCHY_INVALID"
	err := NewBadRequestError("bad", false, &code, nil, nil)

	assert.Equal(t, "HIERARCHY_INVALID", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ParseError{Field: "userInput", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "malformed userInput document: unexpected end of JSON input", err.Error())

	httpErr := err.HTTP()
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, CodeInvalidDocument, httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "userInput", httpErr.Errors[0].Field)
	assert.Equal(t, "unexpected end of JSON input", httpErr.Errors[0].Error)

	bare := (&ParseError{}).HTTP()
	assert.Equal(t, []FieldError{{Field: "body", Error: "is not valid JSON"}}, bare.Errors)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "INTERNAL_SERVER_ERROR", MakeUpperCaseWithUnderscores("Internal Server Error"))
}
