package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	ledger *services.InventoryLedger
}

func NewInventoryHandler(ledger *services.InventoryLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	entries, err := h.ledger.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
