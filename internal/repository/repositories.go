package repository

import (
	"github.com/deppfellow/hierarchy-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Hierarchy HierarchyRepository
}

// NewRepositories builds every repository on top of the server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Hierarchy: NewHierarchyRepository(s.DB.Pool),
	}
}
