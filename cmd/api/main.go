// @title Quiz Digest API
// @version 1.0
// @description Turns pasted content into a summary and a five-question multiple-choice quiz.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-digest/cmd/api/docs"
	"quiz-digest/internal/adapter"
	"quiz-digest/internal/adapter/quizgen"
	"quiz-digest/internal/cache"
	"quiz-digest/internal/config"
	"quiz-digest/internal/database"
	"quiz-digest/internal/domain"
	"quiz-digest/internal/dto"
	"quiz-digest/internal/handler"
	"quiz-digest/internal/logger"
	"quiz-digest/internal/middleware"
	"quiz-digest/internal/repository"
	"quiz-digest/internal/service"
	"quiz-digest/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err), zap.String("driver", cfg.DB.Driver))
	}
	defer db.Close()
	appLogger.Info("Database connected", zap.String("driver", cfg.DB.Driver))

	quizRepository := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Redis is optional; without it generation is not rate limited
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Warn("Redis address not configured, generation rate limiting disabled")
	}

	// The model client is created on first use
	models := quizgen.NewLazyModel(quizgen.NewModelFactory(cfg.LLM))
	generator := quizgen.NewLLMQuizGenerator(models, cfg.LLM.Timeout, cfg.LLM.Temperature)
	appLogger.Info("Quiz generator configured", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	limiter := service.NewGenerationLimiter(cacheAdapter, cfg.Generation.RateLimit, cfg.Generation.RateWindow)
	quizService := service.NewQuizService(quizRepository, txManager, generator, limiter, cfg.Generation)

	identityService, err := service.NewIdentityService(cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create IdentityService", zap.Error(err))
	}

	quizHandler := handler.NewQuizHandler(quizService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)
	validationMiddleware := middleware.NewValidationMiddleware(validation.NewValidator())

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Check)

	apiGroup := app.Group("/api", middleware.Protected(identityService))
	apiGroup.Post("/create-quiz", middleware.ValidateBody[dto.CreateQuizRequest](validationMiddleware), quizHandler.CreateQuiz)
	apiGroup.Get("/quiz/:id", quizHandler.GetQuiz)
	apiGroup.Get("/quizzes", quizHandler.GetAllQuizzes)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
