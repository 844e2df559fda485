package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Context()) != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "connected"
	if h.redis == nil || h.redis.Ping(c.Context()).Err() != nil {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus != "connected" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
