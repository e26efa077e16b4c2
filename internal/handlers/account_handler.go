package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.accountService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Message: "Registered successfully!",
		ID:      user.ID,
	})
}

func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.accountService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AccountHandler) ListHospitals(c *fiber.Ctx) error {
	hospitals, err := h.accountService.ListHospitals(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(hospitals)
}
