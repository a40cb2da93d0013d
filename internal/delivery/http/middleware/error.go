package middleware

import (
	"errors"

	"linkup/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// AppError is what handlers return. Message is written to the client as is,
// so it must be a fixed string; Cause is only logged.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Op         string
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// WithOp names the handler that produced the error for the error log.
func (e *AppError) WithOp(op string) *AppError {
	e.Op = op
	return e
}

type ErrorMiddleware struct {
	logger zerolog.Logger
}

func NewErrorMiddleware(logger zerolog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error().
					Interface("panic", r).
					Str("method", c.Method()).
					Str("path", c.Path()).
					Msg("panic recovered")
				err = response.JSON(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data, op := normalizeError(err)
		m.log(c, status, op, err)
		return response.JSON(c, status, msg, data)
	}
}

func (m *ErrorMiddleware) log(c fiber.Ctx, status int, op string, err error) {
	ev := m.logger.Debug()
	if status >= 500 {
		ev = m.logger.Error()
	}
	ev.Err(err).
		Str("op", op).
		Int("status", status).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
}

func normalizeError(err error) (int, string, interface{}, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status < 400 || status > 599 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil, appErr.Op
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.Message(status)
		}
		if status >= 500 {
			return status, msg, nil, appErr.Op
		}
		return status, msg, appErr.Data, appErr.Op
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status < 400 || status > 599 {
			status = fiber.StatusInternalServerError
		}
		if status >= 500 {
			return status, response.Message(status), nil, ""
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.Message(status)
		}
		return status, msg, nil, ""
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil, ""
}
