package handler

import (
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/deppfellow/hierarchy-api/internal/server"
	"github.com/deppfellow/hierarchy-api/internal/service"
	"github.com/labstack/echo/v4"
)

type HierarchyHandler struct {
	Handler
	hierarchyService *service.HierarchyService
}

func NewHierarchyHandler(s *server.Server, hierarchyService *service.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{
		Handler:          NewHandler(s),
		hierarchyService: hierarchyService,
	}
}

func (h *HierarchyHandler) CreateHierarchy(c echo.Context, payload *model.CreateHierarchyRequest) (*model.CreatedHierarchy, error) {
	return h.hierarchyService.CreateHierarchy(c.Request().Context(), payload)
}

func (h *HierarchyHandler) GetHierarchy(c echo.Context, payload *model.GetHierarchyRequest) (*model.Hierarchy, error) {
	return h.hierarchyService.GetHierarchy(c.Request().Context(), payload.MetadataID())
}

func (h *HierarchyHandler) UpdateStatus(c echo.Context, payload *model.UpdateStatusRequest) (*model.HierarchyMetadata, error) {
	status := payload.Status
	return h.hierarchyService.UpdateMetadata(c.Request().Context(), payload.MetadataID(), model.MetadataUpdate{Status: &status})
}

func (h *HierarchyHandler) UpdateMetadata(c echo.Context, payload *model.UpdateMetadataRequest) (*model.HierarchyMetadata, error) {
	return h.hierarchyService.UpdateMetadata(c.Request().Context(), payload.MetadataID(), payload.Update())
}

func (h *HierarchyHandler) AddHierarchyData(c echo.Context, payload *model.AddDataRequest) (*model.HierarchyData, error) {
	return h.hierarchyService.AddHierarchyData(c.Request().Context(), payload.MetadataID(), payload.Data)
}

func (h *HierarchyHandler) ListHierarchies(c echo.Context, payload *model.ListHierarchiesRequest) (*model.ListResponse[model.HierarchyMetadata], error) {
	page, err := h.hierarchyService.ListHierarchies(c.Request().Context(), payload.Filter(), payload.Limit, payload.Offset())
	if err != nil {
		return nil, err
	}

	return &model.ListResponse[model.HierarchyMetadata]{
		Data:       page.Items,
		Pagination: model.NewPagination(page.Total, payload.Page, payload.Limit),
	}, nil
}

func (h *HierarchyHandler) DeleteHierarchy(c echo.Context, payload *model.DeleteHierarchyRequest) (*model.HierarchyMetadata, error) {
	return h.hierarchyService.DeleteHierarchy(c.Request().Context(), payload.MetadataID())
}
