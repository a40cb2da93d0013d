package middleware

import (
	"errors"
	"strings"

	"linkup/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxUserIDKey = "user_id"

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil).WithOp("auth")
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err).WithOp("auth")
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err).WithOp("auth")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c fiber.Ctx) (string, bool) {
	id, ok := c.Locals(CtxUserIDKey).(string)
	return id, ok && id != ""
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
