package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/coursehub-dev/coursehub-api/api/swagger"
	"github.com/coursehub-dev/coursehub-api/internal/handler"
	"github.com/coursehub-dev/coursehub-api/internal/middleware"
	"github.com/coursehub-dev/coursehub-api/internal/repository"
	"github.com/coursehub-dev/coursehub-api/internal/service"
	"github.com/coursehub-dev/coursehub-api/pkg/cache"
	"github.com/coursehub-dev/coursehub-api/pkg/config"
	"github.com/coursehub-dev/coursehub-api/pkg/database"
	"github.com/coursehub-dev/coursehub-api/pkg/export"
	"github.com/coursehub-dev/coursehub-api/pkg/logger"
	corsmiddleware "github.com/coursehub-dev/coursehub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coursehub-dev/coursehub-api/pkg/middleware/requestid"

	"github.com/go-playground/validator/v10"
)

// @title CourseHub API
// @version 1.0.0
// @description Course platform backend: accounts, courses, lessons, quizzes, enrollment and progress
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	accountRepo := repository.NewAccountRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	followRepo := repository.NewFollowRepository(db)

	authService := service.NewAuthService(accountRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	courseService := service.NewCourseService(courseRepo, lessonRepo, validate, logr)
	learningService := service.NewLearningService(courseRepo, quizRepo, progressRepo, feedbackRepo, export.NewCertificateRenderer(), validate, logr)
	followService := service.NewFollowService(followRepo, accountRepo, logr)
	metricsService := service.NewMetricsService()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logr))
	}
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg, authService, handler.Handlers{
		Auth:    handler.NewAuthHandler(authService, cfg),
		Course:  handler.NewCourseHandler(courseService, learningService),
		Student: handler.NewStudentHandler(learningService, followService),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
