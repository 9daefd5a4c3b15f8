// Package router assembles the gin engine serving the relay API.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github-relay/docs"
	"github-relay/internal/config"
	"github-relay/internal/metrics"
	"github-relay/internal/middleware"
	"github-relay/internal/presentation/handlers"
)

// Dependencies are the collaborators wired into the routes
type Dependencies struct {
	Config  *config.Config
	Relay   handlers.RelayService
	Metrics *metrics.Metrics
	Logger  *logrus.Entry
}

// New builds the engine with middleware and every route registered
func New(deps Dependencies) *gin.Engine {
	router := gin.New()
	// trailing-slash variants are registered explicitly below
	router.RedirectTrailingSlash = false

	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(deps.Logger))
	router.Use(middleware.ErrorHandler(deps.Logger, !deps.Config.IsProduction()))
	router.Use(cors.New(corsConfig(deps.Config.Server.AllowedOrigins)))

	healthHandler := handlers.NewHealthHandler()
	githubHandler := handlers.NewGitHubHandler(deps.Relay)

	handle(router, http.MethodGet, "/health", healthHandler.Health)

	github := router.Group("/github")
	github.Use(middleware.RequireGitHubConfig(deps.Config.GitHub))
	{
		handle(github, http.MethodGet, "", githubHandler.GetProfile)
		handle(github, http.MethodGet, "/:repoName", githubHandler.GetRepository)
		handle(github, http.MethodPost, "/:repoName/issues", githubHandler.CreateIssue)
	}

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(middleware.NotFound())

	return router
}

// handle registers path both with and without a trailing slash, answering both directly
func handle(r gin.IRoutes, method, path string, h gin.HandlerFunc) {
	r.Handle(method, path, h)
	r.Handle(method, path+"/", h)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
