package alertscntrl

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/auth"
	"github.com/wallasnipe/wallasnipe/internal/models"
	"github.com/wallasnipe/wallasnipe/internal/storage"
)

// AlertStore is the slice of the storage layer the alert endpoints need.
type AlertStore interface {
	CreateAlert(ctx context.Context, a models.Alert) (*models.Alert, error)
	GetAlert(ctx context.Context, id int64) (*models.Alert, error)
	ListAlerts(ctx context.Context, userID int64) ([]models.Alert, error)
	UpdateAlert(ctx context.Context, a models.Alert) (*models.Alert, error)
	DeleteAlert(ctx context.Context, id int64) error
}

type alertController struct {
	store     AlertStore
	validator *validator.Validate
}

func NewAlertController(store AlertStore) *alertController {
	return &alertController{
		store:     store,
		validator: validator.New(),
	}
}

func (a *alertController) listHandler(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	alerts, err := a.store.ListAlerts(c.UserContext(), user.ID)
	if err != nil {
		return apperr.Upstream("list alerts", err)
	}
	return c.JSON(alerts)
}

func (a *alertController) createHandler(c *fiber.Ctx) error {
	var req alertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := a.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	user := auth.CurrentUser(c)
	created, err := a.store.CreateAlert(c.UserContext(), req.toModel(user.ID))
	if err != nil {
		return apperr.Upstream("create alert", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (a *alertController) getHandler(c *fiber.Ctx) error {
	alert, err := a.ownedAlert(c)
	if err != nil {
		return err
	}
	return c.JSON(alert)
}

func (a *alertController) updateHandler(c *fiber.Ctx) error {
	existing, err := a.ownedAlert(c)
	if err != nil {
		return err
	}

	var req alertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := a.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	alert := req.toModel(existing.UserID)
	alert.ID = existing.ID
	updated, err := a.store.UpdateAlert(c.UserContext(), alert)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("alert not found")
	}
	if err != nil {
		return apperr.Upstream("update alert", err)
	}
	return c.JSON(updated)
}

func (a *alertController) deleteHandler(c *fiber.Ctx) error {
	existing, err := a.ownedAlert(c)
	if err != nil {
		return err
	}

	if err := a.store.DeleteAlert(c.UserContext(), existing.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("alert not found")
		}
		return apperr.Upstream("delete alert", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownedAlert resolves the :id parameter and enforces ownership. A missing
// alert is NotFound; someone else's alert is Forbidden, never NotFound, so
// clients can tell the two apart.
func (a *alertController) ownedAlert(c *fiber.Ctx) (*models.Alert, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, apperr.Validation("invalid alert id")
	}

	alert, err := a.store.GetAlert(c.UserContext(), int64(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("alert not found")
	}
	if err != nil {
		return nil, apperr.Upstream("get alert", err)
	}

	if alert.UserID != auth.CurrentUser(c).ID {
		return nil, apperr.Forbidden("alert belongs to another user")
	}
	return alert, nil
}
