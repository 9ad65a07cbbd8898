package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reportaxial/reportaxial-api/config"
	"github.com/reportaxial/reportaxial-api/controllers"
	"github.com/reportaxial/reportaxial-api/middleware"
	"github.com/reportaxial/reportaxial-api/models"
	"github.com/reportaxial/reportaxial-api/services"
	"github.com/reportaxial/reportaxial-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := utils.InitLogger(cfg.GoEnv); err != nil {
		panic(err)
	}
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	logger.Info("Starting ReportAxial API server", zap.String("env", cfg.GoEnv))

	if cfg.JaegerEndpoint != "" {
		tp, err := utils.InitTracer("reportaxial-api", cfg.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("Failed to shut down tracer", zap.Error(err))
			}
		}()
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := config.GetDB()

	if err := migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitAttachmentService(cfg); err != nil {
			logger.Fatal("Failed to initialize attachment storage", zap.Error(err))
		}
	} else {
		logger.Warn("AWS_S3_BUCKET not set, attachment uploads disabled")
	}

	router := setupRouter(cfg, db)

	addr := ":" + cfg.Port
	logger.Info("Server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// migrate applies the schema for all portal models
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Supplier{},
		&models.Problem{},
		&models.Response{},
		&models.Message{},
	)
}

// setupRouter wires middleware, controllers and routes
func setupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	problemService := services.NewProblemService(db)
	problemController := controllers.NewProblemController(problemService)
	messageController := controllers.NewMessageController(problemService)
	responseController := controllers.NewResponseController(problemService)
	attachmentController := controllers.NewAttachmentController(problemService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		auth := v1.Group("")
		auth.Use(middleware.EnsureValidToken(cfg))
		{
			auth.POST("/problems",
				middleware.RequireRole(models.RoleStore),
				problemController.Create)
			auth.GET("/problems/store",
				middleware.RequireRole(models.RoleStore),
				problemController.StoreQueue)
			auth.GET("/problems/supplier",
				middleware.RequireRole(models.RoleSupplier),
				problemController.SupplierQueue)
			auth.GET("/problems/:id", problemController.Detail)
			auth.PATCH("/problems/:id",
				middleware.RequireRole(models.RoleStore),
				problemController.UpdateObservations)
			auth.PATCH("/problems/:id/mark-viewed",
				middleware.RequireRole(models.RoleStore, models.RoleSupplier),
				problemController.MarkViewed)
			auth.PATCH("/problems/:id/resolve",
				middleware.RequireRole(models.RoleSupplier),
				problemController.Resolve)
			auth.POST("/problems/:id/respond",
				middleware.RequireRole(models.RoleSupplier),
				responseController.Respond)
			auth.POST("/problems/:id/messages",
				middleware.RequireRole(models.RoleStore, models.RoleSupplier),
				messageController.Post)
			auth.GET("/problems/:id/messages", messageController.List)
			auth.POST("/problems/:id/attachment",
				middleware.RequireRole(models.RoleStore),
				attachmentController.Upload)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ReportAxial API is running",
	})
}
