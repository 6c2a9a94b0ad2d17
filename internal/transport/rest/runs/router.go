package runscntrl

import "github.com/gofiber/fiber/v2"

func RegisterRunRoutes(router fiber.Router, ingestor Ingestor, authed fiber.Handler) {
	ctrl := NewRunController(ingestor)

	runs := router.Group("/runs", authed)
	runs.Post("/", ctrl.ingestHandler)
}
