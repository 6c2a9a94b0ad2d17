package scrapecntrl

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/scraper"
)

type scrapeController struct {
	searcher  scraper.Searcher
	validator *validator.Validate
}

func NewScrapeController(searcher scraper.Searcher) *scrapeController {
	return &scrapeController{
		searcher:  searcher,
		validator: validator.New(),
	}
}

// scrapeHandler runs one live marketplace search with the posted filters and
// returns whatever the page yielded. No queueing, no persistence; callers
// that want a run out of it post the result to the ingest endpoint.
func (s *scrapeController) scrapeHandler(c *fiber.Ctx) error {
	var filters scraper.SearchFilters
	if err := c.BodyParser(&filters); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := s.validator.Struct(filters); err != nil {
		return apperr.Validation(err.Error())
	}

	listings, err := s.searcher.Search(c.UserContext(), filters)
	if err != nil {
		return apperr.Upstream("marketplace search", err)
	}
	return c.JSON(fiber.Map{
		"count":    len(listings),
		"listings": listings,
	})
}
