package accountcntrl

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/auth"
	"github.com/wallasnipe/wallasnipe/internal/models"
	"github.com/wallasnipe/wallasnipe/internal/storage"
)

// AccountStore is the slice of the storage layer the account endpoints need.
type AccountStore interface {
	SetLocation(ctx context.Context, externalID, location string, lat, lng float64) error
	CreateCarRequest(ctx context.Context, r models.CarRequest) (*models.CarRequest, error)
	CreateFeedback(ctx context.Context, f models.Feedback) (*models.Feedback, error)
}

type accountController struct {
	store     AccountStore
	validator *validator.Validate
}

func NewAccountController(store AccountStore) *accountController {
	return &accountController{
		store:     store,
		validator: validator.New(),
	}
}

func (a *accountController) profileHandler(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	return c.JSON(fiber.Map{
		"user":                    user,
		"has_active_subscription": user.HasActiveSubscription(time.Now()),
	})
}

func (a *accountController) getLocationHandler(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	return c.JSON(fiber.Map{
		"location":  user.SearchLocation,
		"latitude":  user.Latitude,
		"longitude": user.Longitude,
	})
}

func (a *accountController) setLocationHandler(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := a.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	user := auth.CurrentUser(c)
	err := a.store.SetLocation(c.UserContext(), user.ExternalID, req.Location, req.Latitude, req.Longitude)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Upstream("save location", err)
	}
	return c.JSON(fiber.Map{
		"location":  req.Location,
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
	})
}

func (a *accountController) carRequestHandler(c *fiber.Ctx) error {
	var req carRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := a.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	user := auth.CurrentUser(c)
	created, err := a.store.CreateCarRequest(c.UserContext(), models.CarRequest{
		UserID:   user.ID,
		Brand:    req.Brand,
		Model:    req.Model,
		MaxPrice: req.MaxPrice,
		Notes:    req.Notes,
	})
	if err != nil {
		return apperr.Upstream("create car request", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// feedbackHandler accepts feedback with or without a logged-in user.
func (a *accountController) feedbackHandler(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := a.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	var userID int64
	if user := auth.CurrentUser(c); user != nil {
		userID = user.ID
	}
	created, err := a.store.CreateFeedback(c.UserContext(), models.Feedback{
		UserID:  userID,
		Rating:  req.Rating,
		Message: req.Message,
	})
	if err != nil {
		return apperr.Upstream("create feedback", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
