package handler

import (
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	movementService  service.MovementService
	inventoryService service.InventoryService
}

func NewStockHandler(movementService service.MovementService, inventoryService service.InventoryService) *StockHandler {
	return &StockHandler{
		movementService:  movementService,
		inventoryService: inventoryService,
	}
}

// Distribute moves stock from the warehouse to a cashier
// POST /api/v1/stocks/distribute
func (h *StockHandler) Distribute(c *fiber.Ctx) error {
	var req service.DistributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.movementService.Distribute(&req, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}

// Return moves stock from a cashier back to the warehouse
// POST /api/v1/stocks/return
func (h *StockHandler) Return(c *fiber.Ctx) error {
	var req service.ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.movementService.Return(&req, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}

// AdjustStock applies a signed warehouse stock correction with a reason
// POST /api/v1/products/:id/adjust-stock
func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.inventoryService.AdjustWarehouseStock(id, req.Delta, req.Reason, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}

// GetMyStock lists the acting cashier's own stock
// GET /api/v1/stocks/mine
func (h *StockHandler) GetMyStock(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	stocks, err := h.inventoryService.GetCashierStocks(actor.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetCashierStock lists a specific cashier's stock
// GET /api/v1/stocks/cashiers/:cashierId
func (h *StockHandler) GetCashierStock(c *fiber.Ctx) error {
	cashierID, err := parseUUID(c.Params("cashierId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid cashier ID"})
	}

	stocks, err := h.inventoryService.GetCashierStocks(cashierID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetDistributions lists the distribution audit trail
// GET /api/v1/stocks/distributions?product_id=&cashier_id=
func (h *StockHandler) GetDistributions(c *fiber.Ctx) error {
	distributions, err := h.movementService.GetDistributions(c.Query("product_id"), c.Query("cashier_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(distributions)
}

// GetReturns lists the return audit trail
// GET /api/v1/stocks/returns?product_id=&cashier_id=
func (h *StockHandler) GetReturns(c *fiber.Ctx) error {
	returns, err := h.movementService.GetReturns(c.Query("product_id"), c.Query("cashier_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(returns)
}
