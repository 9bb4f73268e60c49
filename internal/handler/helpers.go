package handler

import (
	"errors"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// actorFromCtx extracts the authenticated user info set by the auth middleware
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{ID: "system", Name: "Unknown"}
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

// parseUUID validates a path parameter is a well-formed UUID
func parseUUID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// statusFor maps service errors to HTTP status codes. Validation failures are
// 400 and must not be retried with the same inputs; 404 for missing
// references; 409 for state conflicts.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCashierNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrTaxTypeNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return 404
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSKUExists),
		errors.Is(err, service.ErrTaxCodeExists),
		errors.Is(err, service.ErrEmailExists):
		return 409
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrInsufficientWarehouseStock),
		errors.Is(err, service.ErrInsufficientCashierStock),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrPaymentExpired):
		return 400
	default:
		return 500
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == 500 {
		// Technical details are logged server-side, not shown to users
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
