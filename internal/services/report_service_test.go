package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_ExportWorkbook(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewInventoryLedger(db, nil)
	svc := NewReportService(ledger, NewRequestService(db, ledger, nil))

	mock.ExpectQuery(`SELECT \* FROM "inventory"`).
		WillReturnRows(sqlmock.NewRows(inventoryColumns).AddRow(1, "O-", 2, time.Now()))
	cols := append(append([]string{}, requestColumns...), "hospital_name")
	mock.ExpectQuery(`FROM "requests" LEFT JOIN users`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 2, "O-", 3, "approved", time.Now(), time.Now(), "City Hospital").
			AddRow(2, 8, "A+", 1, "pending", time.Now(), time.Now(), nil))

	data, err := svc.ExportWorkbook(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventory", "Requests"}, f.GetSheetList())

	group, err := f.GetCellValue("Inventory", "A2")
	require.NoError(t, err)
	assert.Equal(t, "O-", group)
	units, err := f.GetCellValue("Inventory", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", units)

	hospital, err := f.GetCellValue("Requests", "B2")
	require.NoError(t, err)
	assert.Equal(t, "City Hospital", hospital)
	fallback, err := f.GetCellValue("Requests", "B3")
	require.NoError(t, err)
	assert.Equal(t, "#8", fallback)
	status, err := f.GetCellValue("Requests", "E2")
	require.NoError(t, err)
	assert.Equal(t, "approved", status)
}
