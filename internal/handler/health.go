package handler

import (
	"context"
	"time"

	"quiz-digest/internal/domain"
	"quiz-digest/internal/dto"
	"quiz-digest/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

// NewHealthHandler creates a health handler. cache may be nil when Redis is not configured.
func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check godoc
// @Summary Health check
// @Description Reports database and cache reachability
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Services: map[string]string{}}
	status := fiber.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Get().Error("Database health check failed", zap.Error(err))
		resp.Services["database"] = "down"
		resp.Status = "degraded"
		status = fiber.StatusServiceUnavailable
	} else {
		resp.Services["database"] = "up"
	}

	if h.cache == nil {
		resp.Services["cache"] = "disabled"
	} else if err := h.cache.Ping(ctx); err != nil {
		// cache outages are reported but not fatal
		logger.Get().Warn("Cache health check failed", zap.Error(err))
		resp.Services["cache"] = "down"
	} else {
		resp.Services["cache"] = "up"
	}

	return c.Status(status).JSON(resp)
}
