package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/meezumi/content-review-platform/internal/config"
	"github.com/meezumi/content-review-platform/internal/database"
	"github.com/meezumi/content-review-platform/internal/middleware"
	"github.com/meezumi/content-review-platform/internal/modules/analytics"
	"github.com/meezumi/content-review-platform/internal/modules/auth"
	"github.com/meezumi/content-review-platform/internal/modules/comments"
	"github.com/meezumi/content-review-platform/internal/modules/documents"
	"github.com/meezumi/content-review-platform/internal/modules/enrichment"
	"github.com/meezumi/content-review-platform/internal/modules/notification"
	"github.com/meezumi/content-review-platform/internal/modules/realtime"
	jwtsvc "github.com/meezumi/content-review-platform/internal/pkg/jwt"
	"github.com/meezumi/content-review-platform/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	dispatcher, err := notification.NewDispatcherFromURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	notifier := notification.NewNotifier(dispatcher, userRepo, cfg.AppURL)

	aiClient := enrichment.NewAIClient(cfg.AIServiceURL, cfg.AITimeout)
	ocrClient := enrichment.NewOCRClient(cfg.OCRServiceURL, cfg.OCRTimeout)
	enricher := enrichment.NewService(aiClient, ocrClient)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	fileStore := documents.NewFileStore(cfg.UploadsDir)
	documentService := documents.NewService(documentRepo, userRepo, commentRepo, enricher, notifier, fileStore)
	documentHandler := documents.NewHandler(documentService)

	commentService := comments.NewService(documentRepo, commentRepo)
	commentHandler := comments.NewHandler(commentService)

	analyticsService := analytics.NewService(documentRepo, userRepo, commentRepo)
	analyticsHandler := analytics.NewHandler(analyticsService)

	hub := realtime.NewHub()
	realtimeService := realtime.NewService(documentRepo, commentRepo, notifier, hub)
	realtimeHandler := realtime.NewHandler(hub, j, realtimeService)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS())

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			documentHandler.RegisterRoutes(protected)
			commentHandler.RegisterRoutes(protected)
			analyticsHandler.RegisterRoutes(protected)
		}
	}

	realtimeHandler.RegisterRoutes(r)
	r.Static("/uploads", cfg.UploadsDir)

	log.Printf("API listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
