package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestID tags every request with X-Request-ID, keeping one supplied by
// the caller.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

func requestIDOf(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
