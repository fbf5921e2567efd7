package router

import (
	"net/http"

	"github.com/deppfellow/hierarchy-api/internal/handler"
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/labstack/echo/v4"
)

func registerHierarchyRoutes(api *echo.Group, h *handler.Handlers) {
	hh := h.Hierarchy
	hierarchies := api.Group("/hierarchies")

	hierarchies.POST("", handler.Handle(hh.Handler, hh.CreateHierarchy, http.StatusCreated, &model.CreateHierarchyRequest{}))
	hierarchies.GET("", handler.Handle(hh.Handler, hh.ListHierarchies, http.StatusOK, &model.ListHierarchiesRequest{}))

	hierarchies.GET("/:id", handler.Handle(hh.Handler, hh.GetHierarchy, http.StatusOK, &model.GetHierarchyRequest{}))
	hierarchies.PATCH("/:id", handler.Handle(hh.Handler, hh.UpdateMetadata, http.StatusOK, &model.UpdateMetadataRequest{}))
	hierarchies.DELETE("/:id", handler.Handle(hh.Handler, hh.DeleteHierarchy, http.StatusOK, &model.DeleteHierarchyRequest{}))

	hierarchies.PATCH("/:id/status", handler.Handle(hh.Handler, hh.UpdateStatus, http.StatusOK, &model.UpdateStatusRequest{}))
	hierarchies.POST("/:id/data", handler.Handle(hh.Handler, hh.AddHierarchyData, http.StatusCreated, &model.AddDataRequest{}))
}
