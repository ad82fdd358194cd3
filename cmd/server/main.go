package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openauthz/api/api"
	"github.com/openauthz/api/internal/app"
	"github.com/openauthz/api/internal/config"
	"github.com/openauthz/api/internal/infra/http"
	"github.com/openauthz/api/internal/infra/http/handler"
	"github.com/openauthz/api/internal/infra/http/routes"
	"github.com/openauthz/api/internal/infra/postgres"
	"github.com/openauthz/api/internal/infra/redis"
	"github.com/openauthz/api/pkg/logger"
	"github.com/openauthz/api/pkg/validator"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ==========================================================================
	// Configuration & Logger
	// ==========================================================================
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := initLogger(cfg)
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	// ==========================================================================
	// Infrastructure
	// ==========================================================================
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer closeWithLog(db, "database", log)
	log.Info("database connected")

	var roleCache app.RoleCache
	var cachePinger handler.Pinger
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(&cfg.Redis, log)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			return 1
		}
		defer closeWithLog(redisClient, "redis", log)
		cachePinger = redisClient

		cache, err := redis.NewCache[app.RoleSnapshot](redisClient, "role", cfg.Redis.CacheTTL)
		if err != nil {
			log.Error("failed to initialize role cache", "error", err)
			return 1
		}
		roleCache = cache
	}

	// ==========================================================================
	// Repositories & Services
	// ==========================================================================
	roleRepo := postgres.NewRoleRepository(db)
	permissionRepo := postgres.NewPermissionRepository(db)

	var roleOpts []app.RoleServiceOption
	if roleCache != nil {
		roleOpts = append(roleOpts, app.WithRoleCache(roleCache))
	}
	roleService := app.NewRoleService(roleRepo, permissionRepo, log, roleOpts...)

	// ==========================================================================
	// HTTP Server
	// ==========================================================================
	v := validator.New()
	handlers := routes.Handlers{
		Health: handler.NewHealthHandler(db, cachePinger),
		Docs:   handler.NewDocsHandler(api.Schema),
		Role:   handler.NewRoleHandler(roleService, v, log),
	}

	server := http.NewServer(cfg, log)
	routes.Register(server.Router(), handlers)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	// ==========================================================================
	// Graceful Shutdown
	// ==========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return 1
	}

	log.Info("application stopped")
	return 0
}

func initLogger(cfg *config.Config) *logger.Logger {
	if cfg.IsProduction() {
		return logger.New(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		})
	}
	return logger.NewDevelopment()
}

type closer interface {
	Close() error
}

func closeWithLog(c closer, name string, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
