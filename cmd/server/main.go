package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/api"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/auth"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/pkg/logger"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(cfg, zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := db.SeedUserTypes(database, cfg); err != nil {
		zapLogger.Fatal("Failed to seed user types", zap.Error(err))
	}

	metricsCollector := metrics.NewMetricsCollector()
	tokenService := auth.NewTokenService(cfg)
	userService := services.NewUserService(database, cfg, zapLogger, metricsCollector)
	userTypeService := services.NewUserTypeService(database, cfg, zapLogger)
	documentService := services.NewDocumentService(database, zapLogger, metricsCollector)
	attestationService := services.NewAttestationService(database, zapLogger)

	if err := seedSuperuser(userService, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed superuser", zap.Error(err))
	}

	router := api.NewRouter(cfg, zapLogger, metricsCollector, tokenService, userService, userTypeService, documentService, attestationService)
	router.SetupRoutes()

	srv := newHTTPServer(cfg, router.GetEngine())
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("Forced server shutdown", zap.Error(err))
	}

	sqlDB, err := database.DB()
	if err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}

func newHTTPServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

// seedSuperuser creates the bootstrap superuser account when SUPERUSER_EMAIL
// and SUPERUSER_PASSWORD are set and no account with that email exists yet.
func seedSuperuser(users *services.UserService, cfg *config.Configuration, zapLogger *zap.Logger) error {
	email := os.Getenv("SUPERUSER_EMAIL")
	password := os.Getenv("SUPERUSER_PASSWORD")
	if email == "" || password == "" {
		zapLogger.Info("No superuser credentials configured, skipping seed")
		return nil
	}

	ctx := context.Background()
	if _, err := users.GetByEmail(ctx, email); err == nil {
		zapLogger.Info("Superuser already exists, skipping seed")
		return nil
	}

	_, err := users.Register(ctx, services.RegisterInput{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        email,
		Password:     password,
		UserTypeName: cfg.UserTypes.Superuser,
	})
	if err != nil {
		return err
	}

	zapLogger.Info("Superuser seeded", zap.String("email", email))
	return nil
}
