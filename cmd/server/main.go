package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog_portal/internal/api"
	"catalog_portal/internal/app/service"
	"catalog_portal/internal/common/security"
	"catalog_portal/internal/domain/repository"
	"catalog_portal/internal/platform/cache"
	"catalog_portal/internal/platform/config"
	"catalog_portal/internal/platform/database"
	"catalog_portal/internal/platform/logger"
)

func main() {
	// 1. Load Configuration
	config.Load()
	logger.Init(config.AppConfig.LogLevel, config.AppConfig.LogFormat)
	logger.Log.Info("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database and sync the schema
	database.Connect()
	defer database.Close()
	database.Sync(context.Background())

	// 4. Initialize Redis (optional catalog cache)
	if config.AppConfig.CacheEnabled() {
		cache.ConnectRedis()
		defer cache.CloseRedis()
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)

	// 6. Initialize Services
	issuer := security.NewTokenIssuer(security.TokenAuth, config.AppConfig.JWTExp)
	authService := service.NewAuthService(userRepo, issuer)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(config.AppConfig.CatalogBaseURL, &http.Client{Timeout: 15 * time.Second})
	if cache.RDB != nil {
		productService.WithCache(cache.NewRedisCache(cache.RDB, "catalog:"), config.AppConfig.CatalogCacheTTL)
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(api.Services{
		Auth:    authService,
		User:    userService,
		Product: productService,
	}, config.AppConfig.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Log.WithField("port", config.AppConfig.APIPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop

	logger.Log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Log.Info("Server stopped gracefully.")
}
