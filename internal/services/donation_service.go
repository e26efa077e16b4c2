package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DonationService struct {
	db        *gorm.DB
	ledger    *InventoryLedger
	publisher events.Publisher
}

func NewDonationService(db *gorm.DB, ledger *InventoryLedger, publisher events.Publisher) *DonationService {
	return &DonationService{db: db, ledger: ledger, publisher: publisher}
}

// Donation describes a recorded donation.
type Donation struct {
	DonorID      uint           `json:"donor_id"`
	UserID       uint           `json:"user_id"`
	BloodGroup   string         `json:"blood_group"`
	Quantity     int            `json:"quantity"`
	DonationDate datatypes.Date `json:"donation_date"`
}

// Record stores a completed donation: the donor row is created or refreshed,
// inventory for the group grows by the donated units, and the user's cached
// blood group follows the donation. All three commit together.
func (s *DonationService) Record(ctx context.Context, req *dto.RecordDonationRequest) (*Donation, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = req.Quantity.Int()
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	date := today()
	if req.DonationDate != "" {
		d, err := parseDate("donation_date", req.DonationDate)
		if err != nil {
			return nil, err
		}
		date = *d
	}

	donation := Donation{
		UserID:       uint(req.DonorID.Int()),
		BloodGroup:   models.NormalizeBloodGroup(req.BloodGroup),
		Quantity:     quantity,
		DonationDate: date,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("id = ? AND role = ?", donation.UserID, models.RoleDonor).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonorNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load donor: %w", err)
		}

		if donation.BloodGroup == "" && user.BloodGroup != nil {
			donation.BloodGroup = models.NormalizeBloodGroup(*user.BloodGroup)
		}
		if donation.BloodGroup == "" {
			return invalid("blood_group is required")
		}
		if !models.ValidBloodGroup(donation.BloodGroup) {
			return invalidBloodGroup()
		}

		group := donation.BloodGroup
		donor := models.Donor{
			UserID:           user.ID,
			BloodGroup:       &group,
			Location:         user.Location,
			LastDonationDate: &date,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"blood_group", "last_donation_date", "updated_at"}),
		}).Create(&donor).Error
		if err != nil {
			return fmt.Errorf("failed to upsert donor: %w", err)
		}
		donation.DonorID = donor.ID

		if err := s.ledger.Increment(tx, group, quantity); err != nil {
			return err
		}

		if user.BloodGroup == nil || *user.BloodGroup != group {
			if err := syncDonorToUser(tx, user.ID, map[string]interface{}{"blood_group": group}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Invalidate(ctx)
	publish(ctx, s.publisher, events.Event{
		Type:    events.TypeDonationRecorded,
		Key:     "donor-" + strconv.FormatUint(uint64(donation.UserID), 10),
		Payload: donation,
	})
	return &donation, nil
}
