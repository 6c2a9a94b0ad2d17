package scrapecntrl

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/scraper"
)

func RegisterScrapeRoutes(router fiber.Router, searcher scraper.Searcher, authed fiber.Handler) {
	ctrl := NewScrapeController(searcher)

	scrape := router.Group("/scrape", authed)
	scrape.Post("/", ctrl.scrapeHandler)
}
