package marketcntrl

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/config"
)

func RegisterMarketRoutes(router fiber.Router, runs RunSource, cfg config.MarketConfig) {
	ctrl := NewMarketController(runs, cfg)

	router.Get("/listings", ctrl.listingsFeedHandler)

	market := router.Group("/market")
	market.Get("/", ctrl.overviewHandler)
	market.Get("/:brand", ctrl.brandHandler)
	market.Get("/:brand/:model", ctrl.brandModelHandler)
}
