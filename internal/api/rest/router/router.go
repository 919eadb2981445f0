// Package router wires handlers and middleware into the echo engine.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dazuba/feature-votes/internal/api/rest/handler"
	"github.com/dazuba/feature-votes/internal/api/rest/middleware"
	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
	"github.com/dazuba/feature-votes/internal/service"
)

// Router assembles the HTTP routes and middleware for the service.
type Router struct {
	authService    *service.Auth
	featureService *service.Feature
	tokenService   *service.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a Router over the service layer.
func New(
	authService *service.Auth,
	featureService *service.Feature,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		featureService: featureService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the echo engine with all routes and middleware.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(r.logger).Handle

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	e.Use(logging.Handle)

	healthHandler := handler.NewHealth()
	e.GET("/health", healthHandler.Handle)

	r.registerAuthRoutes(e)
	r.registerFeatureRoutes(e, authenticate)

	return e
}

func (r *Router) registerAuthRoutes(e *echo.Echo) {
	authHandler := handler.NewAuth(r.authService, r.tokenService, r.logger)

	g := e.Group("/auth")
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.POST("/refresh", authHandler.Refresh)
	g.POST("/logout", authHandler.Logout)
}

func (r *Router) registerFeatureRoutes(e *echo.Echo, authenticate *middleware.Authenticate) {
	featureHandler := handler.NewFeature(r.featureService, r.contextManager, r.logger)

	g := e.Group("/features")

	// Reads are public; the static /top segment wins over /:id.
	g.GET("", featureHandler.List)
	g.GET("/top", featureHandler.Top)
	g.GET("/:id", featureHandler.Get)

	g.POST("", featureHandler.Create, authenticate.Handle)
	g.PUT("/:id", featureHandler.Update, authenticate.Handle)
	g.DELETE("/:id", featureHandler.Delete, authenticate.Handle)
	g.POST("/:id/vote", featureHandler.CastVote, authenticate.Handle)
	g.GET("/:id/vote", featureHandler.UserVote, authenticate.Handle)
}
