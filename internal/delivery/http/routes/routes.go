package routes

import (
	"linkup/internal/delivery/http/handler"
	"linkup/internal/pkg/jwt"
	"linkup/internal/usecase"
	"linkup/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Deps struct {
	Users  usecase.UserUsecase
	JWT    jwt.Service
	Store  handler.Pinger
	Cache  handler.Pinger
	Hub    *ws.Hub
	Logger zerolog.Logger
}

type Registry struct {
	deps   Deps
	health *handler.HealthHandler
	ws     *ws.Handler
}

func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		deps:   deps,
		health: handler.NewHealthHandler(deps.Store, deps.Cache),
	}
	if deps.Hub != nil {
		r.ws = ws.NewHandler(deps.Hub, deps.Logger)
	}
	return r
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if r.ws != nil {
		r.ws.RegisterRoutes(app)
	}
	r.registerAPI(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps)
}
