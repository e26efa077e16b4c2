package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	inventorySheet = "Inventory"
	requestsSheet  = "Requests"
	reportTime     = "2006-01-02 15:04:05"
)

// ReportService builds the admin XLSX export of inventory and requests.
type ReportService struct {
	ledger   *InventoryLedger
	requests *RequestService
}

func NewReportService(ledger *InventoryLedger, requests *RequestService) *ReportService {
	return &ReportService{ledger: ledger, requests: requests}
}

func (s *ReportService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	inventory, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	inventoryRows := make([][]interface{}, 0, len(inventory))
	for _, e := range inventory {
		inventoryRows = append(inventoryRows, []interface{}{e.BloodGroup, e.Units, e.UpdatedAt.Format(reportTime)})
	}
	requestRows := make([][]interface{}, 0, len(requests))
	for _, r := range requests {
		requestRows = append(requestRows, []interface{}{
			r.ID, hospitalLabel(r), r.BloodGroup, r.Quantity, string(r.Status), r.CreatedAt.Format(reportTime),
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"B22222"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheet(f, inventorySheet, headerStyle,
		[]string{"Blood Group", "Units", "Updated At"}, inventoryRows); err != nil {
		return nil, err
	}
	if err := writeSheet(f, requestsSheet, headerStyle,
		[]string{"ID", "Hospital", "Blood Group", "Quantity", "Status", "Created At"}, requestRows); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(inventorySheet); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func hospitalLabel(r models.BloodRequest) string {
	if r.HospitalName != nil {
		return *r.HospitalName
	}
	return fmt.Sprintf("#%d", r.HospitalID)
}
