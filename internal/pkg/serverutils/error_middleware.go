package serverutils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts any error escaping a handler into a
// JSON 500. Expected errors are mapped to statuses inside the handlers;
// anything reaching this point is a bug or an infrastructure failure.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if e, ok := err.(*fiber.Error); ok {
			return ctx.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}

		log.Printf("Unhandled error: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
