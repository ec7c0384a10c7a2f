// Package router assembles the gin engine: middleware order, the route
// table and the uniform not-found response.
package router

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"task-manager/internal/handlers"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
)

type Options struct {
	// AllowAllOrigins overrides AllowedOrigins. An empty AllowedOrigins
	// also allows all.
	AllowAllOrigins bool
	AllowedOrigins  []string
	Authenticator   middleware.Authenticator
	Logger          *log.Logger
}

func New(h *handlers.Handler, opts Options) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		opts.Logger.Error("panic", "err", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Internal server error"})
	}))
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(cors.New(corsConfig(opts.AllowAllOrigins, opts.AllowedOrigins)))
	router.Use(middleware.BodyLimit(middleware.MaxBodyBytes))

	api := router.Group("/api")
	api.GET("/health", h.Health)

	requireAuth := middleware.Auth(opts.Authenticator)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.Register)
	authRoutes.POST("/login", h.Login)
	authRoutes.GET("/me", requireAuth, h.Me)

	tasks := api.Group("/tasks", requireAuth)
	tasks.GET("", h.GetTasks)
	tasks.POST("", h.CreateTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Not found"})
	})

	return router
}

func corsConfig(allowAll bool, origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}

	if allowAll || len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
