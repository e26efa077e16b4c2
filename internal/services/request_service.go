package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestService struct {
	db        *gorm.DB
	ledger    *InventoryLedger
	publisher events.Publisher
}

func NewRequestService(db *gorm.DB, ledger *InventoryLedger, publisher events.Publisher) *RequestService {
	return &RequestService{db: db, ledger: ledger, publisher: publisher}
}

// requestWithHospital selects requests joined with the submitting hospital's name.
func (s *RequestService) requestWithHospital(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.BloodRequest{}).
		Select("requests.*, users.name AS hospital_name").
		Joins("LEFT JOIN users ON users.id = requests.hospital_id")
}

func (s *RequestService) Create(ctx context.Context, req *dto.CreateBloodRequest) (*models.BloodRequest, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Quantity.Int() <= 0 {
		return nil, ErrInvalidQuantity
	}

	hospitalID := uint(req.HospitalID.Int())
	var hospital models.User
	err := s.db.WithContext(ctx).Select("id", "name").
		Where("id = ? AND role = ?", hospitalID, models.RoleHospital).
		Take(&hospital).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHospitalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital: %w", err)
	}

	request := models.BloodRequest{
		HospitalID: hospitalID,
		BloodGroup: models.NormalizeBloodGroup(req.BloodGroup),
		Quantity:   req.Quantity.Int(),
		Status:     models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.HospitalName = &hospital.Name

	publish(ctx, s.publisher, events.Event{
		Type:    events.TypeRequestCreated,
		Key:     requestKey(request.ID),
		Payload: request,
	})
	return &request, nil
}

// ParseHospitalFilter turns the optional hospital_id query value into a
// filter. Anything that is not a positive integer means no filter.
func ParseHospitalFilter(raw string) *uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

// List returns requests newest first, optionally limited to one hospital.
func (s *RequestService) List(ctx context.Context, hospitalID *uint) ([]models.BloodRequest, error) {
	q := s.requestWithHospital(ctx)
	if hospitalID != nil {
		q = q.Where("requests.hospital_id = ?", *hospitalID)
	}

	requests := make([]models.BloodRequest, 0)
	if err := q.Order("requests.created_at DESC, requests.id DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *RequestService) GetByID(ctx context.Context, id uint) (*models.BloodRequest, error) {
	var request models.BloodRequest
	err := s.requestWithHospital(ctx).Where("requests.id = ?", id).Take(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

// UpdateStatus moves a request to newStatus. Approving a request that is not
// already approved decrements inventory in the same transaction; if stock is
// short nothing changes. Rejecting or reopening never touches inventory.
func (s *RequestService) UpdateStatus(ctx context.Context, id uint, newStatus string) (*models.BloodRequest, error) {
	status := models.RequestStatus(strings.ToLower(strings.TrimSpace(newStatus)))
	if status == "" {
		return nil, invalid("'status' field is required (approved/rejected/pending)")
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		request     models.BloodRequest
		previous    models.RequestStatus
		decremented bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&request).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load request: %w", err)
		}
		previous = request.Status

		if status == models.StatusApproved && previous != models.StatusApproved {
			if err := s.ledger.Decrement(tx, request.BloodGroup, request.Quantity); err != nil {
				return err
			}
			decremented = true
		}

		if status == previous {
			return nil
		}
		if err := tx.Model(&request).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		request.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decremented {
		s.ledger.Invalidate(ctx)
	}
	if status != previous {
		publish(ctx, s.publisher, events.Event{
			Type: events.TypeRequestStatusChanged,
			Key:  requestKey(request.ID),
			Payload: map[string]interface{}{
				"request_id":  request.ID,
				"hospital_id": request.HospitalID,
				"blood_group": request.BloodGroup,
				"quantity":    request.Quantity,
				"from":        previous,
				"to":          status,
			},
		})
	}
	return &request, nil
}

func requestKey(id uint) string {
	return "request-" + strconv.FormatUint(uint64(id), 10)
}
