package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datatide/relstore/internal/domain/entity"
	customerUseCase "github.com/datatide/relstore/internal/domain/usecase/customer"
	"github.com/datatide/relstore/internal/infrastructure/adapter/api/handler"
	"github.com/datatide/relstore/internal/infrastructure/adapter/api/routes"
	"github.com/datatide/relstore/internal/infrastructure/adapter/database"
	"github.com/datatide/relstore/internal/infrastructure/adapter/logger"
	timeProvider "github.com/datatide/relstore/internal/infrastructure/adapter/time"
	"github.com/datatide/relstore/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() {
		_ = appLogger.Flush()
	}()

	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		Path:            cfg.Database.Path,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Minute,
		QueryTimeout:    time.Duration(cfg.Database.QueryTimeout) * time.Second,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      time.Duration(cfg.Database.RetryDelay) * time.Second,
	}

	tp := timeProvider.NewRealTimeProvider()

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	db, err := dbManager.Connect()
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			appLogger.Warn("Closing database failed", map[string]any{"error": err.Error()})
		}
	}()

	// Demo setup only; schema management proper belongs to the store
	if err := db.AutoMigrate(&entity.Customer{}, &entity.Order{}); err != nil {
		appLogger.Error("Failed to prepare schema", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	uowFactory := database.NewUnitOfWorkFactory[uint64, entity.Customer](db, appLogger, tp)
	customerService := customerUseCase.NewService(uowFactory, appLogger)
	customerHandler := handler.NewCustomerHandler(customerService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, customerHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}
}
