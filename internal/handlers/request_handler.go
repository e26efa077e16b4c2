package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBloodRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	request, err := h.requestService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request submitted successfully",
		"request": request,
	})
}

// List handles GET /api/request?hospital_id=N.
func (h *RequestHandler) List(c *fiber.Ctx) error {
	hospitalID := services.ParseHospitalFilter(c.Query("hospital_id"))

	requests, err := h.requestService.List(c.UserContext(), hospitalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

func (h *RequestHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrRequestNotFound)
	}

	request, err := h.requestService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(request)
}

func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, services.ErrRequestNotFound)
	}

	var req dto.UpdateRequestStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	status := ""
	if req.Status != nil {
		status = *req.Status
	}

	request, err := h.requestService.UpdateStatus(c.UserContext(), id, status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.RequestStatusResponse{
		Message: "Request " + string(request.Status) + " successfully",
		Status:  request.Status,
	})
}
