package handler

import (
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TaxHandler struct {
	service service.TaxService
}

func NewTaxHandler(s service.TaxService) *TaxHandler {
	return &TaxHandler{service: s}
}

func (h *TaxHandler) GetTaxTypes(c *fiber.Ctx) error {
	taxTypes, err := h.service.GetAllTaxTypes()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(taxTypes)
}

func (h *TaxHandler) CreateTaxType(c *fiber.Ctx) error {
	var taxType model.TaxType
	if err := c.BodyParser(&taxType); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateTaxType(&taxType, actorFromCtx(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Tax type created", "data": taxType})
}

func (h *TaxHandler) UpdateTaxType(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid tax type ID"})
	}

	var taxType model.TaxType
	if err := c.BodyParser(&taxType); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateTaxType(id, &taxType, actorFromCtx(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tax type updated", "data": updated})
}

func (h *TaxHandler) DeleteTaxType(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid tax type ID"})
	}

	if err := h.service.DeleteTaxType(id); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tax type deleted"})
}
