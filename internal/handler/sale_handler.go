package handler

import (
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	saleService service.SaleService
	qrisService service.QRISService
}

func NewSaleHandler(saleService service.SaleService, qrisService service.QRISService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		qrisService: qrisService,
	}
}

// Checkout completes a cash or card sale in one shot
// POST /api/v1/sales
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.saleService.CompleteSale(&req, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(result)
}

// InitiateQRIS starts an asynchronous QRIS checkout and returns the QR payload
// POST /api/v1/sales/qris
func (h *SaleHandler) InitiateQRIS(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.PaymentMethod = model.PaymentQRIS

	payment, err := h.qrisService.Initiate(c.Context(), &req, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(payment)
}

// PollQRIS performs one status check; the UI calls this until the payment is
// terminal or the QR expires
// GET /api/v1/sales/qris/:paymentId
func (h *SaleHandler) PollQRIS(c *fiber.Ctx) error {
	paymentID, err := parseUUID(c.Params("paymentId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	payment, err := h.qrisService.Advance(c.Context(), paymentID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(payment)
}

// GetSales lists sales with optional filters
// GET /api/v1/sales?cashier_id=&status=&start_date=&end_date=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		CashierID: c.Query("cashier_id"),
		Status:    model.SaleStatus(c.Query("status")),
	}
	if v := c.Query("start_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &parsed
		}
	}
	if v := c.Query("end_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			end := parsed.AddDate(0, 0, 1)
			filter.EndDate = &end
		}
	}

	sales, err := h.saleService.GetSales(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GetSale fetches one sale with its items and taxes
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.saleService.GetSaleByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sale)
}

// CancelSale voids a completed sale and restocks the cashier
// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) CancelSale(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.saleService.CancelSale(id, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale cancelled", "data": sale})
}

// PreviewTotals returns the tax breakdown for a subtotal, for the live cart
// preview
// POST /api/v1/sales/preview
func (h *SaleHandler) PreviewTotals(c *fiber.Ctx) error {
	var req struct {
		Subtotal int64 `json:"subtotal"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	breakdown, err := h.saleService.PreviewTotals(req.Subtotal)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(breakdown)
}
