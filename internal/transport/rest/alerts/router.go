package alertscntrl

import "github.com/gofiber/fiber/v2"

func RegisterAlertRoutes(router fiber.Router, store AlertStore, authed fiber.Handler) {
	ctrl := NewAlertController(store)

	alerts := router.Group("/alerts", authed)
	alerts.Get("/", ctrl.listHandler)
	alerts.Post("/", ctrl.createHandler)
	alerts.Get("/:id", ctrl.getHandler)
	alerts.Put("/:id", ctrl.updateHandler)
	alerts.Delete("/:id", ctrl.deleteHandler)
}
