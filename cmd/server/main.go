package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/database"
	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/mailer"
	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/routes"
	"github.com/confreview/backend/internal/services"
	"github.com/confreview/backend/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, envFile := config.Load()

	// Initialize logger first
	logger.Initialize(cfg.Log)
	if !envFile {
		logger.Warn("No .env file found, using environment variables", nil)
	}

	store, closeStore, err := database.Open(cfg.Database, true)
	if err != nil {
		logger.Fatal("Failed to open store", map[string]interface{}{"error": err.Error(), "driver": cfg.Database.Driver})
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.WithError(err, "server").Error("Failed to close store")
		}
	}()

	files, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", map[string]interface{}{"error": err.Error(), "dir": cfg.Upload.Dir})
	}

	// Background insight extraction
	llmService := services.NewLLMService(cfg.LLM)
	jobService := services.NewJobService(store, services.NewInsightService(llmService), cfg.Jobs)

	sender, err := mailer.New(cfg.Mail)
	if err != nil {
		logger.Fatal("Failed to configure mail sender", map[string]interface{}{"error": err.Error(), "provider": cfg.Mail.Provider})
	}
	reminders := services.NewReminderService(store, services.NewStatsService(store), sender, cfg.Mail.CoordinatorEmail)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumerDone := make(chan struct{})
	if cfg.Mail.Provider == "amqp" && cfg.Mail.ConsumeInProcess {
		delivery, err := mailer.NewDelivery(cfg.Mail)
		if err != nil {
			logger.Fatal("Failed to configure mail delivery", map[string]interface{}{"error": err.Error(), "delivery": cfg.Mail.Delivery})
		}
		consumer := mailer.NewQueueConsumer(cfg.Mail.RabbitMQURL, cfg.Mail.Queue, delivery)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err, "mail_consumer").Error("Mail consumer stopped")
			}
		}()
	} else {
		close(consumerDone)
	}

	var scheduler *services.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler, err = services.NewScheduler(cfg.Scheduler.Spec, reminders)
		if err != nil {
			logger.Fatal("Failed to configure scheduler", map[string]interface{}{"error": err.Error()})
		}
		scheduler.Start()
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	if redisClient == nil && cfg.RateLimit.Enabled {
		logger.Warn("Redis unavailable, auth rate limiting disabled", map[string]interface{}{"addr": cfg.Redis.Addr})
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.MaxMultipartMemory = cfg.Upload.MaxFileSize

	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(gin.Recovery())
	r.Static("/uploads", files.Dir())

	routes.SetupRoutes(r, routes.Dependencies{
		Store:     store,
		Tokens:    services.NewTokenManager(cfg.JWT),
		Files:     files,
		Jobs:      jobService,
		Reminders: reminders,
		LLM:       llmService,
		Redis:     redisClient,
		RateLimit: cfg.RateLimit,
		Debug:     cfg.DebugRoutes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting conference review backend", map[string]interface{}{
		"port":          cfg.Port,
		"gin_mode":      gin.Mode(),
		"store":         cfg.Database.Driver,
		"mail_provider": cfg.Mail.Provider,
		"debug_routes":  cfg.DebugRoutes,
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	logger.Warn("Received shutdown signal, stopping...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
	}
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("Scheduler run still in progress at shutdown", nil)
		}
	}
	jobService.Stop()
	<-consumerDone
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exited gracefully", nil)
}
