package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	authMiddleware "github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/auth/middleware"
	authService "github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/auth/service"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/config"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/handlers"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/logger"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/middlewares"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/repositories"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/services"
)

// @title Learning Platform API
// @version 1.0
// @description E-learning platform backend: courses, lessons, enrollments, quizzes and certificates

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Learning Platform API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := authService.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	lessonRepo := repositories.NewLessonRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	progressRepo := repositories.NewProgressRepository(db)
	quizRepo := repositories.NewQuizRepository(db)
	certificateRepo := repositories.NewCertificateRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)

	// Initialize services
	publisher := services.NewOutboxPublisher(outboxRepo, logger.Logger)
	authSvc := services.NewAuthService(userRepo, tokenGenerator, logger.Logger)
	courseSvc := services.NewCourseService(courseRepo, logger.Logger)
	lessonSvc := services.NewLessonService(lessonRepo, courseRepo, enrollmentRepo, logger.Logger)
	enrollmentSvc := services.NewEnrollmentService(enrollmentRepo, courseRepo, publisher, logger.Logger)
	progressSvc := services.NewProgressService(progressRepo, lessonRepo, courseRepo, enrollmentRepo, logger.Logger)
	quizSvc := services.NewQuizService(quizRepo, courseRepo, enrollmentRepo, logger.Logger)
	certificateSvc := services.NewCertificateService(
		certificateRepo,
		courseRepo,
		enrollmentRepo,
		progressRepo,
		lessonRepo,
		publisher,
		logger.Logger,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseSvc, logger.Logger)
	lessonHandler := handlers.NewLessonHandler(lessonSvc, logger.Logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentSvc, logger.Logger)
	progressHandler := handlers.NewProgressHandler(progressSvc, logger.Logger)
	quizHandler := handlers.NewQuizHandler(quizSvc, logger.Logger)
	certificateHandler := handlers.NewCertificateHandler(certificateSvc, logger.Logger)

	// Initialize auth middleware
	authMW := authMiddleware.AuthMiddleware(tokenGenerator)
	staffMW := authMiddleware.RequireRoles(tokenGenerator, models.RoleInstructor, models.RoleAdmin)
	adminMW := authMiddleware.RequireRoles(tokenGenerator, models.RoleAdmin)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		courseHandler.RegisterRoutes(r, authMW, staffMW)
		lessonHandler.RegisterRoutes(r, authMW, staffMW)
		enrollmentHandler.RegisterRoutes(r, authMW, staffMW, adminMW)
		progressHandler.RegisterRoutes(r, authMW)
		quizHandler.RegisterRoutes(r, authMW, staffMW)
		certificateHandler.RegisterRoutes(r, authMW, staffMW)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
