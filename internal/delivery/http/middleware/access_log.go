package middleware

import (
	"strconv"
	"time"

	"linkup/internal/pkg/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger zerolog.Logger
}

func NewAccessLogMiddleware(logger zerolog.Logger) *AccessLogMiddleware {
	return &AccessLogMiddleware{logger: logger}
}

// Middleware tags the request with an id, logs it and records request metrics.
// It must run outside ErrorMiddleware so the final status is known.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(dur.Seconds())

		m.logger.Info().
			Str("rid", rid).
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", status).
			Dur("latency", dur).
			Str("ua", c.Get(fiber.HeaderUserAgent)).
			Msg("http access")

		return err
	}
}
