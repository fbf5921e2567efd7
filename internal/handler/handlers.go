package handler

import (
	"github.com/deppfellow/hierarchy-api/internal/server"
	"github.com/deppfellow/hierarchy-api/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Hierarchy *HierarchyHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Hierarchy: NewHierarchyHandler(s, services.Hierarchy),
	}
}
