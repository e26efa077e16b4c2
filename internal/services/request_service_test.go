package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(t *testing.T) (*RequestService, sqlmock.Sqlmock, *recordingPublisher) {
	db, mock := newMockDB(t)
	pub := &recordingPublisher{}
	return NewRequestService(db, NewInventoryLedger(db, nil), pub), mock, pub
}

func lockedRequestRow(status models.RequestStatus, group string, quantity int) *sqlmock.Rows {
	return sqlmock.NewRows(requestColumns).AddRow(1, 2, group, quantity, string(status), time.Now(), time.Now())
}

func TestRequestService_Create(t *testing.T) {
	svc, mock, pub := newRequestService(t)

	mock.ExpectQuery(`SELECT "id","name" FROM "users" WHERE id = \$1 AND role = \$2`).
		WithArgs(2, "hospital").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "City Hospital"))
	mock.ExpectQuery(`INSERT INTO "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	req, err := svc.Create(context.Background(), &dto.CreateBloodRequest{HospitalID: 2, BloodGroup: "o-", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, uint(10), req.ID)
	assert.Equal(t, "O-", req.BloodGroup)
	assert.Equal(t, models.StatusPending, req.Status)
	require.NotNil(t, req.HospitalName)
	assert.Equal(t, "City Hospital", *req.HospitalName)
	assert.Equal(t, []string{events.TypeRequestCreated}, pub.types())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_CreateValidation(t *testing.T) {
	svc, mock, _ := newRequestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateBloodRequest{HospitalID: 2, BloodGroup: "O-", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(ctx, &dto.CreateBloodRequest{HospitalID: 2, BloodGroup: "Z+", Quantity: 1})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "Invalid blood group")

	_, err = svc.Create(ctx, &dto.CreateBloodRequest{BloodGroup: "O-", Quantity: 1})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "hospital_id is required", verr.Message)

	_, err = svc.Create(ctx, &dto.CreateBloodRequest{HospitalID: -1, BloodGroup: "O-", Quantity: 1})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "hospital_id must be a positive integer", verr.Message)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_CreateUnknownHospital(t *testing.T) {
	svc, mock, pub := newRequestService(t)

	mock.ExpectQuery(`SELECT "id","name" FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := svc.Create(context.Background(), &dto.CreateBloodRequest{HospitalID: 99, BloodGroup: "A+", Quantity: 1})
	assert.ErrorIs(t, err, ErrHospitalNotFound)
	assert.Empty(t, pub.types())
}

func TestRequestService_ListFiltersByHospital(t *testing.T) {
	svc, mock, _ := newRequestService(t)

	cols := append(append([]string{}, requestColumns...), "hospital_name")
	mock.ExpectQuery(`SELECT requests\.\*, users\.name AS hospital_name FROM "requests" LEFT JOIN users ON users\.id = requests\.hospital_id WHERE requests\.hospital_id = \$1 ORDER BY requests\.created_at DESC, requests\.id DESC`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 7, "B+", 1, "pending", time.Now(), time.Now(), "North Clinic").
			AddRow(1, 7, "O-", 2, "approved", time.Now().Add(-time.Hour), time.Now(), "North Clinic"))

	hospitalID := uint(7)
	requests, err := svc.List(context.Background(), &hospitalID)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, uint(2), requests[0].ID)
	assert.Equal(t, "North Clinic", *requests[0].HospitalName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_GetByIDNotFound(t *testing.T) {
	svc, mock, _ := newRequestService(t)

	mock.ExpectQuery(`FROM "requests" LEFT JOIN users .* WHERE requests\.id = \$1`).
		WillReturnRows(sqlmock.NewRows(requestColumns))

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestParseHospitalFilter(t *testing.T) {
	assert.Nil(t, ParseHospitalFilter(""))
	assert.Nil(t, ParseHospitalFilter("abc"))
	assert.Nil(t, ParseHospitalFilter("-3"))
	assert.Nil(t, ParseHospitalFilter("0"))

	id := ParseHospitalFilter(" 12 ")
	require.NotNil(t, id)
	assert.Equal(t, uint(12), *id)
}

func TestRequestService_UpdateStatusValidation(t *testing.T) {
	svc, mock, _ := newRequestService(t)

	_, err := svc.UpdateStatus(context.Background(), 1, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), 1, "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "'status' field is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ApproveWithoutInventory(t *testing.T) {
	svc, mock, pub := newRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "requests" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(lockedRequestRow(models.StatusPending, "O-", 3))
	mock.ExpectExec(`UPDATE "inventory" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "inventory"`).WillReturnRows(sqlmock.NewRows(inventoryColumns))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 1, "approved")
	var short *InsufficientInventoryError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, "No inventory available for blood group O-", err.Error())
	assert.Empty(t, pub.types())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ApproveDecrements(t *testing.T) {
	svc, mock, pub := newRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "requests" .*FOR UPDATE`).
		WillReturnRows(lockedRequestRow(models.StatusPending, "O-", 3))
	mock.ExpectExec(`UPDATE "inventory" SET .*units - \$1`).
		WithArgs(3, sqlmock.AnyArg(), "O-", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "requests" SET "status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.UpdateStatus(context.Background(), 1, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, req.Status)
	assert.Equal(t, []string{events.TypeRequestStatusChanged}, pub.types())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ApproveRollsBackWhenStatusWriteFails(t *testing.T) {
	db, mock := newMockDB(t)
	kv := newMemKV()
	pub := &recordingPublisher{}
	svc := NewRequestService(db, NewInventoryLedger(db, cache.NewInventoryCache(kv, time.Minute)), pub)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "requests" .*FOR UPDATE`).
		WillReturnRows(lockedRequestRow(models.StatusPending, "B+", 2))
	mock.ExpectExec(`UPDATE "inventory" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "requests" SET "status"=\$1`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 1, "approved")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update request status")
	assert.Empty(t, pub.types())
	assert.Zero(t, kv.dels)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ReapproveDoesNotDecrement(t *testing.T) {
	svc, mock, pub := newRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "requests" .*FOR UPDATE`).
		WillReturnRows(lockedRequestRow(models.StatusApproved, "O-", 3))
	mock.ExpectCommit()

	req, err := svc.UpdateStatus(context.Background(), 1, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, req.Status)
	assert.Empty(t, pub.types())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_RejectLeavesInventory(t *testing.T) {
	svc, mock, _ := newRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "requests" .*FOR UPDATE`).
		WillReturnRows(lockedRequestRow(models.StatusApproved, "A+", 2))
	mock.ExpectExec(`UPDATE "requests" SET "status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.UpdateStatus(context.Background(), 1, "Rejected")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, req.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_UpdateStatusNotFound(t *testing.T) {
	svc, mock, _ := newRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "requests"`).WillReturnRows(sqlmock.NewRows(requestColumns))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 404, "rejected")
	assert.ErrorIs(t, err, ErrRequestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
