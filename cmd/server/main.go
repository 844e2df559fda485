// Package main is the entry point for the payment platform API server.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixgate/internal/config"
	"pixgate/internal/repositories"
	"pixgate/internal/repositories/cache"
	"pixgate/internal/routes"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

var configPath = kingpin.Flag("config", "Path to the YAML configuration file.").
	Short('c').Default("config.yaml").String()

func main() {
	kingpin.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := buildLogger(cfg.Logger.Level)
	defer logger.Sync() //nolint:errcheck

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal("database initialization failed", zap.Error(err))
	}
	logger.Info("connected to database", zap.String("host", cfg.Database.Host))

	// Redis is optional: without it balance reads skip the snapshot
	// cache and hit Postgres directly.
	rdb, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, balance cache disabled", zap.Error(err))
		rdb = nil
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Application,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public charge creation is rate limited per client IP.
	app.Use("/api/public", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, db, rdb, cfg, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis connection", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}
}

func buildLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
