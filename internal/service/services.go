package service

import (
	"github.com/deppfellow/hierarchy-api/internal/repository"
	"github.com/deppfellow/hierarchy-api/internal/server"
)

type Services struct {
	Hierarchy *HierarchyService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Hierarchy: NewHierarchyService(repos.Hierarchy),
	}
}
