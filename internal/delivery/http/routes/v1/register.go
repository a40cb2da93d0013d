package v1

import (
	"linkup/internal/delivery/http/handler"
	"linkup/internal/delivery/http/middleware"
	"linkup/internal/pkg/jwt"
	"linkup/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, users usecase.UserUsecase, jwtSvc jwt.Service) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(jwtSvc)
	userHandler := handler.NewUserHandler(users, authMw.Middleware())

	RegisterUsers(r.Group("/users"), userHandler)
}
