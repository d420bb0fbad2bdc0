package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders ops API failures as a stable JSON envelope. Fiber
// errors keep their status and message; anything else is a 500 whose detail
// stays in the log, never in the response body (the store error may carry
// file paths or DSN fragments).
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Ops request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			message = "internal server error"
		}

		return c.Status(code).JSON(fiber.Map{
			"error":  message,
			"status": code,
		})
	}
}
