package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"painter/internal/config"
	"painter/internal/service"
)

const (
	statusUp     = "UP"
	readyTimeout = 2 * time.Second
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ActuatorHealth reports liveness with the current time in Unix milliseconds.
//
//	@Summary	Health with timestamp
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Router		/actuator/health [get]
func ActuatorHealth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(healthResponse{Status: statusUp, Timestamp: time.Now().UnixMilli()})
	}
}

// SimpleHealth reports liveness only.
//
//	@Summary	Health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Router		/health [get]
func SimpleHealth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(healthResponse{Status: statusUp})
	}
}

// ActuatorInfo returns static application info.
func ActuatorInfo(cfg *config.AppConfig) fiber.Handler {
	body := fiber.Map{
		"app":         cfg.AppName,
		"version":     cfg.Version,
		"description": "Painter Service - CardManager",
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(body)
	}
}

// LivenessProbe is a bare 200 for orchestrators.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Readiness checks the optional catalog database.
func Readiness(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()
		if err := svc.Ready(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}
