package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto status codes. Anything unrecognised is
// a store failure and is reported as a 500 with the underlying message.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validation *services.ValidationError
		shortage   *services.InsufficientInventoryError
		conflict   *services.ConflictError
		notFound   *services.NotFoundError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &shortage), errors.As(err, &conflict):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err,
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return fail(c, fiber.StatusInternalServerError, "Server error: "+err.Error())
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// parseBody decodes the request body; failures come back as validation errors.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return &services.ValidationError{Message: "Request body is required"}
	}
	if err := c.BodyParser(out); err != nil {
		return &services.ValidationError{Message: "Invalid request body"}
	}
	return nil
}

// pathID reads a positive integer route parameter.
func pathID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// ErrorHandler renders framework-level errors (unknown routes, oversized
// bodies, recovered panics) in the same {"error": ...} shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", requestID(c), "error", err.Error())
		message = "Internal server error"
	}
	return fail(c, code, message)
}
