// Package server assembles the gin engine: middleware, sessions and routes.
package server

import (
	"fmt"
	"net/http"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/DevNiNi18/flowtrack/internal/handlers"
	"github.com/DevNiNi18/flowtrack/internal/logger"
	"github.com/DevNiNi18/flowtrack/internal/middleware"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Services are the stores and collaborators the routes are served from.
type Services struct {
	Auth     *services.AuthService
	Projects *services.ProjectService
	Tasks    *services.TaskService
}

// RouterConfig holds the engine's cross-cutting middleware. Nil middleware
// is skipped.
type RouterConfig struct {
	Logger        zerolog.Logger
	SessionStore  sessions.Store
	Secure        gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
	Metrics       bool // expose /metrics

	// TrustedProxies may set X-Forwarded-For; nil trusts none.
	TrustedProxies []string
}

// NewRouter builds the gin engine serving the FlowTrack API.
func NewRouter(cfg RouterConfig, svc Services) (*gin.Engine, error) {
	r := gin.New()
	// Client IPs key the auth rate limit.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(cfg.Logger))
	r.Use(middleware.Prometheus())
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, cfg.SessionStore))

	authHandler := handlers.NewAuthHandler(svc.Auth, cfg.Logger)
	projectHandler := handlers.NewProjectHandler(svc.Projects, cfg.Logger)
	taskHandler := handlers.NewTaskHandler(svc.Tasks, cfg.Logger)

	projectAccess := middleware.RequireProjectAccess(svc.Projects, cfg.Logger)
	taskAccess := middleware.RequireTaskAccess(svc.Tasks, cfg.Logger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "FlowTrack API is running",
		})
	})
	if cfg.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			limited := auth.Group("")
			if cfg.AuthRateLimit != nil {
				limited.Use(cfg.AuthRateLimit)
			}
			limited.POST("/register", authHandler.Register)
			limited.POST("/login", authHandler.Login)

			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/tasks", projectAccess, taskHandler.ListTasks)
			projects.POST("/:id/tasks", projectAccess, taskHandler.CreateTask)
			projects.POST("/:id/tasks/suggest", projectAccess, taskHandler.SuggestTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("/:id/toggle", taskAccess, taskHandler.ToggleTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return r, nil
}
