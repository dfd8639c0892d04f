// @title ExamDrill API
// @version 1.0
// @description Certification exam practice API: question delivery and per-user response tracking.
// @host localhost:8090
// @BasePath /
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

	"examdrill/internal/adapter"
	"examdrill/internal/cache"
	"examdrill/internal/config"
	"examdrill/internal/database"
	"examdrill/internal/handler"
	"examdrill/internal/logger"
	"examdrill/internal/middleware"
	"examdrill/internal/repository"
	"examdrill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with outcome and timing.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	responseRepository := repository.NewSQLXResponseRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	questionService := service.NewQuestionService(questionRepository, cacheAdapter, cfg.Cache.QuestionSetTTL)
	responseService := service.NewResponseService(questionRepository, responseRepository)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("AuthService initialized")

	questionHandler := handler.NewQuestionHandler(questionService, cfg.Demo.QuestionLimit)
	responseHandler := handler.NewResponseHandler(responseService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	apiGroup.Get("/users/me", middleware.Protected(authService), authHandler.GetProfile)

	// Question bank: public, but anonymous callers only see the demo
	// slice of each exam.
	apiGroup.Get("/qs", middleware.OptionalAuth(authService), questionHandler.GetQuestions)
	apiGroup.Get("/exams", questionHandler.ListExams)
	apiGroup.Get("/exams/:id", middleware.OptionalAuth(authService), questionHandler.GetExamQuestions)

	// Response rows (all protected)
	responseGroup := apiGroup.Group("/responses", middleware.Protected(authService))
	responseGroup.Get("/", responseHandler.GetResponses)
	responseGroup.Post("/", responseHandler.SaveResponse)
	responseGroup.Patch("/", responseHandler.UpdateBookmark)
	responseGroup.Delete("/", responseHandler.DeleteResponses)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
