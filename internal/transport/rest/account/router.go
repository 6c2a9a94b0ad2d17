package accountcntrl

import "github.com/gofiber/fiber/v2"

func RegisterAccountRoutes(router fiber.Router, store AccountStore, authed fiber.Handler) {
	ctrl := NewAccountController(store)

	account := router.Group("/account", authed)
	account.Get("/", ctrl.profileHandler)
	account.Get("/location", ctrl.getLocationHandler)
	account.Put("/location", ctrl.setLocationHandler)

	router.Post("/car-requests", authed, ctrl.carRequestHandler)
	router.Post("/feedback", ctrl.feedbackHandler)
}
