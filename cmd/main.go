package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"role-catalog/domain"
	"role-catalog/infrastructure"
	"role-catalog/interfaces"
)

func main() {
	cfg, err := infrastructure.LoadConfig(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	infrastructure.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store domain.RoleStore
	if cfg.DBDriver == infrastructure.DriverMemory {
		store = infrastructure.NewMemoryRoleStore()
		log.Warn("using in-memory store, data is lost on restart")
	} else {
		db, err := infrastructure.OpenDatabase(cfg)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		store = infrastructure.NewGormRoleStore(db)
	}

	if cfg.SeedRoles {
		if err := infrastructure.SeedRoles(ctx, store); err != nil {
			log.Fatalf("seed roles: %v", err)
		}
	}

	if cfg.RabbitMQURL != "" {
		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			log.Fatalf("connect RabbitMQ: %v", err)
		}
		defer rmq.Close()
		store = infrastructure.NewPublishingStore(store, rmq)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := interfaces.NewRouter(interfaces.RouterConfig{
		BasePath:       cfg.BasePath,
		AllowedOrigins: cfg.AllowedOrigins,
		Store:          store,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"addr": srv.Addr, "base_path": cfg.BasePath}).Info("role catalog listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown: %v", err)
	}
}
