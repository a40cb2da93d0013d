package app

import (
	"context"
	"fmt"
	"strings"

	"linkup/internal/config"
	"linkup/internal/delivery/http/middleware"
	"linkup/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	routes.NewRegistry(routes.Deps{
		Users:  c.Users,
		JWT:    c.JWT,
		Store:  c.Store.Conn,
		Cache:  c.Cache,
		Hub:    c.Hub,
		Logger: c.Logger,
	}).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container and the HTTP app and starts the websocket
// hub. The returned cleanup stops the hub and closes every connection.
func Bootstrap(cfg config.Config, logger zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger zerolog.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger)
	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
