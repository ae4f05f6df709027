// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/config"
	"github.com/javajoker/commodity-admin/internal/database"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/middleware"
	"github.com/javajoker/commodity-admin/internal/router"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	utils.SetJWTSecret(cfg.Session.SecretKey)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	deps := router.Dependencies{
		AuditRecorder: database.LogRecorder{},
	}

	// Audit database is optional
	if cfg.Database.Enabled {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}

		store := database.NewAuditStore(db)
		deps.AuditRecorder = store
		deps.AuditReader = store
	}

	cache := services.NewReferenceCache(cfg.Redis)
	if closer, ok := cache.(io.Closer); ok {
		defer closer.Close()
	}

	storage, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.Fatal("Failed to initialize storage: ", err)
	}
	logrus.WithField("s3", storage.Enabled()).Info("CSV archive configured")

	client := catalog.New(cfg.Catalog)
	categories := services.NewCategoryService(cache)
	brands := services.NewBrandService(cache)

	workspaces := services.NewWorkspaceStore(
		func(token string) services.CatalogAPI { return client.WithSession(token) },
		categories,
		brands,
		storage,
		services.WorkspaceOptions{
			IdleTTL:         cfg.Session.IdleTTL,
			UploadMaxBytes:  cfg.Upload.MaxBytes,
			UploadStatusTTL: cfg.Upload.StatusTTL,
		},
	)
	defer workspaces.Stop()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go workspaces.Run(sweepCtx, time.Minute)

	loginLimiter := middleware.PerMinute("login", cfg.RateLimit.LoginPerMinute)
	defer loginLimiter.Stop()
	uploadLimiter := middleware.PerMinute("upload", cfg.RateLimit.UploadPerMinute)
	defer uploadLimiter.Stop()

	deps.Workspaces = workspaces
	deps.Brands = brands
	deps.Auth = services.NewAuthService(
		func(token string) services.SessionAPI { return client.WithSession(token) },
		workspaces,
		cfg.Session,
	)
	deps.LoginLimiter = loginLimiter
	deps.UploadLimiter = uploadLimiter

	// Initialize router
	r := router.Initialize(cfg, deps)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"catalog": cfg.Catalog.BaseURL,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exited")
}
