package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// DirectoryHandler serves user profiles and donor records.
type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

func (h *DirectoryHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrUserNotFound)
	}

	profile, err := h.directoryService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (h *DirectoryHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrUserNotFound)
	}

	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.directoryService.UpdateProfile(c.UserContext(), userID, &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user_id": userID,
	})
}

func (h *DirectoryHandler) CreateDonor(c *fiber.Ctx) error {
	var req dto.CreateDonorRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	donor, err := h.directoryService.CreateDonor(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Donor created successfully!",
		"donor_id": donor.ID,
		"user_id":  donor.UserID,
	})
}

func (h *DirectoryHandler) ListDonors(c *fiber.Ctx) error {
	donors, err := h.directoryService.ListDonors(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donors)
}

func (h *DirectoryHandler) GetDonorByUserID(c *fiber.Ctx) error {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return respondError(c, services.ErrDonorNotFound)
	}

	donor, err := h.directoryService.GetDonorByUserID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donor)
}

func (h *DirectoryHandler) GetDonorByID(c *fiber.Ctx) error {
	donorID, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrDonorRecordNotFound)
	}

	donor, err := h.directoryService.GetDonorByID(c.UserContext(), donorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donor)
}

func (h *DirectoryHandler) UpdateDonor(c *fiber.Ctx) error {
	donorID, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrDonorRecordNotFound)
	}

	var req dto.UpdateDonorRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	userID, err := h.directoryService.UpdateDonor(c.UserContext(), donorID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Donor updated successfully!",
		"donor_id": donorID,
		"user_id":  userID,
	})
}

func (h *DirectoryHandler) DeleteDonor(c *fiber.Ctx) error {
	donorID, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrDonorRecordNotFound)
	}

	userID, err := h.directoryService.DeleteDonor(c.UserContext(), donorID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":          "Donor record deleted successfully!",
		"deleted_donor_id": donorID,
		"user_id":          userID,
	})
}
