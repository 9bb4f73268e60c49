package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusForValidationFailure(t *testing.T) {
	// The shape a service returns when struct validation rejects a field,
	// e.g. Distribute with ProductID "not-a-uuid"
	err := fmt.Errorf("%w: field 'ProductID' failed on rule 'uuid_required'", service.ErrValidation)
	assert.Equal(t, 400, statusFor(err))
}

func TestStatusForMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrProductNotFound, 404},
		{service.ErrCashierNotFound, 404},
		{gorm.ErrRecordNotFound, 404},
		{service.ErrInvalidTransition, 409},
		{service.ErrSKUExists, 409},
		{service.ErrValidation, 400},
		{service.ErrInvalidQuantity, 400},
		{service.ErrInsufficientCashierStock, 400},
		{service.ErrEmptyCart, 400},
		{fmt.Errorf("wrapped: %w", service.ErrInsufficientStock), 400},
		{errors.New("database exploded"), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "error: %v", tc.err)
	}
}

func TestErrorJSONShowsValidationMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errorJSON(c, fmt.Errorf("%w: field 'ProductID' failed on rule 'uuid_required'", service.ErrValidation))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Contains(t, payload["error"], "ProductID")
}

func TestErrorJSONHidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errorJSON(c, errors.New("pq: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "connection refused")
}
