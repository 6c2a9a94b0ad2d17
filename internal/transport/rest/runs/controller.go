package runscntrl

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/models"
)

type Ingestor interface {
	Ingest(ctx context.Context, cohort models.Cohort, listings []models.Listing) (*models.Run, error)
}

type runController struct {
	ingestor  Ingestor
	validator *validator.Validate
}

func NewRunController(ingestor Ingestor) *runController {
	return &runController{
		ingestor:  ingestor,
		validator: validator.New(),
	}
}

// ingestHandler accepts one completed scan. An empty listing batch is valid
// input and still produces a run.
func (r *runController) ingestHandler(c *fiber.Ctx) error {
	var req ingestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := r.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	run, err := r.ingestor.Ingest(c.UserContext(), req.cohort(), req.listings())
	if err != nil {
		return apperr.Upstream("ingest run", err)
	}
	return c.Status(fiber.StatusCreated).JSON(run)
}
