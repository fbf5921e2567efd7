package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithRequestID(t *testing.T, incoming string) (header, stored string) {
	t.Helper()

	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		stored = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Header().Get(RequestIDHeader), stored
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	header, stored := serveWithRequestID(t, "trace-abc-123")
	assert.Equal(t, "trace-abc-123", header)
	assert.Equal(t, "trace-abc-123", stored)
}

func TestRequestID_GeneratesWhenMissingOrInvalid(t *testing.T) {
	for _, incoming := range []string{"", strings.Repeat("x", maxRequestIDLength+1), "has space"} {
		header, stored := serveWithRequestID(t, incoming)
		assert.Equal(t, header, stored)

		_, err := uuid.Parse(header)
		assert.NoError(t, err, "incoming %q", incoming)
	}
}
