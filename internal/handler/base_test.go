package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/hierarchy-api/internal/config"
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/deppfellow/hierarchy-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	log := zerolog.Nop()
	return &server.Server{Config: config.DefaultConfig(), Logger: &log}
}

func TestNewRequest_ReturnsFreshValue(t *testing.T) {
	template := &model.UpdateMetadataRequest{}

	first := newRequest(template)
	first.ID = "set"

	second := newRequest(template)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.ID)
	assert.Empty(t, template.ID)
}

func TestHandle_DoesNotShareRequestState(t *testing.T) {
	h := NewHandler(testServer())

	e := echo.New()
	e.POST("/echo/:id", Handle(h, func(c echo.Context, req *model.UpdateMetadataRequest) (map[string]any, error) {
		out := map[string]any{"version": nil}
		if req.Version != nil {
			out["version"] = *req.Version
		}
		return out, nil
	}, http.StatusOK, &model.UpdateMetadataRequest{}))

	post := func(body string) string {
		req := httptest.NewRequest(http.MethodPost, "/echo/6f1c0b8e-2b7a-4e7d-9a55-3c7f8b1d2e10", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return rec.Body.String()
	}

	assert.JSONEq(t, `{"version":"v1"}`, post(`{"version": "v1"}`))
	assert.JSONEq(t, `{"version":null}`, post(`{"userFeedback": "x"}`))
}

func TestHandle_WritesStatusAndBody(t *testing.T) {
	h := NewHandler(testServer())

	e := echo.New()
	e.GET("/items/:id", Handle(h, func(c echo.Context, req *model.GetHierarchyRequest) (map[string]string, error) {
		return map[string]string{"id": req.ID}, nil
	}, http.StatusAccepted, &model.GetHierarchyRequest{}))

	id := "6f1c0b8e-2b7a-4e7d-9a55-3c7f8b1d2e10"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"id":"`+id+`"}`, rec.Body.String())
}
