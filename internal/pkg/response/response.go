// Package response writes the JSON envelope shared by every endpoint.
package response

import "github.com/gofiber/fiber/v3"

// Envelope is the body of every JSON response. Data is null on errors
// unless the handler attached client-facing details.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageNotFound            = "not found"
	MessageTooManyRequests     = "too many requests"
	MessageInternalServerError = "internal server error"
	MessageServiceUnavailable  = "service unavailable"
	MessageError               = "error"
)

var fallbackMessages = map[int]string{
	fiber.StatusOK:                 MessageOK,
	fiber.StatusBadRequest:         MessageBadRequest,
	fiber.StatusUnauthorized:       MessageUnauthorized,
	fiber.StatusNotFound:           MessageNotFound,
	fiber.StatusTooManyRequests:    MessageTooManyRequests,
	fiber.StatusServiceUnavailable: MessageServiceUnavailable,
}

// Message is the text used when a caller supplies none for status.
func Message(status int) string {
	if m, ok := fallbackMessages[status]; ok {
		return m
	}
	if status >= 500 {
		return MessageInternalServerError
	}
	return MessageError
}

// JSON writes the envelope with status. Statuses outside 100-599 are sent
// as 500.
func JSON(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = Message(status)
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}

// OK writes a 200 envelope carrying data.
func OK(c fiber.Ctx, data any) error {
	return JSON(c, fiber.StatusOK, MessageOK, data)
}
