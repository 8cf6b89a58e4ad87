package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vitalscan/vitalscan-server/internal/analyzer"
	"github.com/vitalscan/vitalscan-server/internal/config"
	"github.com/vitalscan/vitalscan-server/internal/delivery"
	"github.com/vitalscan/vitalscan-server/internal/handler"
	"github.com/vitalscan/vitalscan-server/internal/middleware"
	"github.com/vitalscan/vitalscan-server/internal/pdf"
	"github.com/vitalscan/vitalscan-server/internal/repository"
	"github.com/vitalscan/vitalscan-server/internal/service"
	"github.com/vitalscan/vitalscan-server/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Open the embedded user database
	db, err := badger.Open(badger.DefaultOptions(cfg.Storage.Dir).WithLogger(nil))
	if err != nil {
		logger.Fatal("Failed to open user database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("User database opened", zap.String("dir", cfg.Storage.Dir))

	// Initialize the AI provider; without an API key the server runs in
	// offline mode and every analysis returns an empty result.
	var aiClient *analyzer.OpenAIClient
	if cfg.OpenAI.APIKey != "" {
		aiClient, err = analyzer.NewOpenAIClient(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.VisionModel,
			cfg.OpenAI.TTSModel,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize OpenAI client", zap.Error(err))
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set, analysis runs in offline mode")
	}

	// Optional report archive
	var archive *storage.ReportArchive
	if cfg.ArchiveConfigured() {
		archive, err = storage.NewReportArchive(
			cfg.Archive.AccountName,
			cfg.Archive.AccountKey,
			cfg.Archive.Container,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize report archive", zap.Error(err))
		}
	} else {
		logger.Info("Report archive not configured, archived-report retrieval disabled")
	}

	// Initialize services
	gateway := analyzer.NewGateway(aiClient, logger)
	analysisService := service.NewAnalysisService(gateway, logger)
	reportService := service.NewReportService(pdf.NewGenerator(logger), archive, logger)
	userStore := repository.NewUserStore(db, logger)

	emailSender := delivery.NewEmailSender(delivery.EmailConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)
	whatsappSender := delivery.NewWhatsAppSender(delivery.WhatsAppConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		From:       cfg.Twilio.From,
	}, logger)

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)
	reportHandler := handler.NewReportHandler(analysisService, reportService, emailSender, whatsappSender, logger)
	userHandler := handler.NewUserHandler(userStore, logger)
	speechHandler := handler.NewSpeechHandler(aiClient, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-Report-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Register API routes
	handler.RegisterRoutes(r, analysisHandler, reportHandler, userHandler, speechHandler)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
