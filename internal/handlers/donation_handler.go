package handlers

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DonationHandler struct {
	donationService *services.DonationService
}

func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

func (h *DonationHandler) Record(c *fiber.Ctx) error {
	var req dto.RecordDonationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	donation, err := h.donationService.Record(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Donation recorded successfully! Added %d unit(s) of %s to inventory.",
			donation.Quantity, donation.BloodGroup),
		"donation": donation,
	})
}
