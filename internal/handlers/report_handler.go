package handlers

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Export streams the inventory and request workbook as an attachment.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	data, err := h.reportService.ExportWorkbook(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("bloodbank-report-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
