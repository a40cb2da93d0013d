package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name   string
		store  Pinger
		cache  Pinger
		status int
	}{
		{name: "all up", store: up, cache: up, status: fiber.StatusOK},
		{name: "cache down", store: up, cache: down, status: fiber.StatusOK},
		{name: "store down", store: down, cache: up, status: fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(tt.store, tt.cache).RegisterRoutes(app)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			if assert.NoError(t, err) {
				defer resp.Body.Close()
				assert.Equal(t, tt.status, resp.StatusCode)
			}
		})
	}
}
