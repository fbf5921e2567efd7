package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/hierarchy-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_CheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23514",
		Message:        `new row for relation "hierarchy_metadata" violates check constraint`,
		TableName:      "hierarchy_metadata",
		ConstraintName: "hierarchy_metadata_status_check",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("failed to update metadata: %w", pgErr)))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "HIERARCHY_METADATA_INVALID", httpErr.Code)
	assert.Equal(t, "The Status value does not meet required conditions", httpErr.Message)
}

func TestHandleError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23503",
		TableName:  "hierarchy_data",
		ColumnName: "metadata_id",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "HIERARCHY_DATA_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Metadata does not exist", httpErr.Message)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		TableName:  "hierarchy_metadata",
		ColumnName: "user_input",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "user_input", httpErr.Errors[0].Field)
	assert.Equal(t, "The User Input is required", httpErr.Message)
}

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		TableName:      "hierarchy_metadata",
		ConstraintName: "hierarchy_metadata_version_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, "A Hierarchy Metadata with this Version already exists", httpErr.Message)
}

func TestHandleError_Passthrough(t *testing.T) {
	original := errs.NewNotFoundError("Hierarchy not found", true, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_NoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleError_Unknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset by peer")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)

	httpErr = asHTTPError(t, HandleError(&pgconn.PgError{Code: "53300"}))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "40P01", Severity: "ERROR"})

	assert.Equal(t, DeadlockDetected, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
	assert.Equal(t, SeverityError, converted.Severity)
}

func TestErrCode_PgError(t *testing.T) {
	err := fmt.Errorf("failed to create data: %w", &pgconn.PgError{Code: "23503"})
	assert.Equal(t, ForeignKeyViolation, ErrCode(err))
}
