package handler

import (
	"context"
	"time"

	"linkup/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	cache Pinger
}

func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health fails only when the store is unreachable; a missing cache degrades
// rate limiting but not the API.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{"store": "up", "cache": "up"}

	if h.cache == nil || h.cache.Ping(ctx) != nil {
		data["cache"] = "down"
	}
	if h.store == nil || h.store.Ping(ctx) != nil {
		data["store"] = "down"
		return response.JSON(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, data)
	}
	return response.OK(c, data)
}
