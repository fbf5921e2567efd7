// Package router builds the Echo instance: global middleware in order,
// the error handler, and every route group.
package router

import (
	"github.com/deppfellow/hierarchy-api/internal/handler"
	"github.com/deppfellow/hierarchy-api/internal/middleware"
	"github.com/deppfellow/hierarchy-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes around h.
//
// Order matters: the request id must exist before the context logger is
// built, and the New Relic transaction must exist before both.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerHierarchyRoutes(api, h)

	return router
}
