package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"barangay-health-server/internal/analytics"
	"barangay-health-server/internal/config"
	"barangay-health-server/internal/handlers"
	"barangay-health-server/internal/middleware"
	"barangay-health-server/internal/models"
	"barangay-health-server/internal/pipeline"
	"barangay-health-server/internal/store"
)

// Deps is everything the routes are served from.
type Deps struct {
	Config    *config.Config
	Pipelines *pipeline.Set
	Users     store.Users
	Analytics *analytics.Service
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config
	timeout := cfg.StoreTimeout
	tokenTTL := time.Duration(cfg.JWTExpirationMinutes) * time.Minute

	authHandler := handlers.NewAuthHandler(d.Pipelines.Users, d.Users, cfg.JWTSecret, tokenTTL, timeout, d.Logger)
	userHandler := handlers.NewUserHandler(d.Pipelines.Users, timeout)
	analyticsHandler := handlers.NewAnalyticsHandler(d.Analytics, timeout, d.Logger)
	reportHandler := handlers.NewReportHandler(d.Pipelines, timeout, d.Logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		private.GET("/auth/profile", authHandler.GetProfile)

		records := private.Group("/records")
		{
			handlers.NewRecordHandler(d.Pipelines.Households, timeout).Register(records.Group("/" + string(models.KindHousehold)))
			handlers.NewRecordHandler(d.Pipelines.Pregnant, timeout).Register(records.Group("/" + string(models.KindPregnant)))
			handlers.NewRecordHandler(d.Pipelines.SeniorCitizens, timeout).Register(records.Group("/" + string(models.KindSeniorCitizen)))
			handlers.NewRecordHandler(d.Pipelines.FamilyPlanning, timeout).Register(records.Group("/" + string(models.KindFamilyPlanning)))
		}

		private.GET("/analytics", analyticsHandler.GetSummary)
		private.GET("/reports/:file", reportHandler.Export)

		// Admin-only routes
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
