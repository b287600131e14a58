package apperr

import "github.com/gofiber/fiber/v2"

// Respond writes err as a JSON error body with its HTTP status.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(HTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
