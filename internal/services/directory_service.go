package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/patch"
	"gorm.io/gorm"
)

// DirectoryService manages user profiles and donor records. blood_group and
// location live on both tables; every write goes through the sync helpers.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

func (s *DirectoryService) GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := &dto.ProfileResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		BloodGroup: user.BloodGroup,
		Location:   user.Location,
	}
	if user.Role != models.RoleDonor {
		return profile, nil
	}

	var donor models.Donor
	err = s.db.WithContext(ctx).Select("id", "last_donation_date").Where("user_id = ?", userID).Take(&donor).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get donor record: %w", err)
	}
	if err == nil {
		profile.LastDonationDate = donor.LastDonationDate
	}
	return profile, nil
}

// UpdateProfile applies the present fields of req. A donor's blood group and
// location are carried over to the donor row in the same transaction.
func (s *DirectoryService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateUserRequest) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Select("id", "role").Where("id = ?", userID).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.Name.IsNull() || (req.Name.Value != nil && strings.TrimSpace(*req.Name.Value) == "") {
			return invalid("name cannot be empty")
		}
		if req.Email.IsNull() || (req.Email.Value != nil && strings.TrimSpace(*req.Email.Value) == "") {
			return invalid("email cannot be empty")
		}
		bloodGroup, err := bloodGroupField(req.BloodGroup)
		if err != nil {
			return err
		}

		b := patch.NewBuilder().
			Add("name", req.Name).
			Add("email", req.Email).
			Add("blood_group", bloodGroup).
			Add("location", req.Location)
		if req.Password.Value != nil && *req.Password.Value != "" {
			b.Add("password", req.Password)
		}
		if b.Empty() {
			return ErrNoFieldsToUpdate
		}

		if req.Email.Value != nil {
			var taken int64
			err := tx.Model(&models.User{}).
				Where("email = ? AND id <> ?", *req.Email.Value, userID).
				Count(&taken).Error
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if taken > 0 {
				return ErrEmailTaken
			}
		}

		assignments := b.Map()
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(assignments).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		if user.Role == models.RoleDonor {
			return syncUserToDonor(tx, userID, assignments)
		}
		return nil
	})
}

func (s *DirectoryService) CreateDonor(ctx context.Context, req *dto.CreateDonorRequest) (*models.Donor, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	bloodGroup, err := bloodGroupPtr(req.BloodGroup)
	if err != nil {
		return nil, err
	}
	donor := models.Donor{
		UserID:     uint(req.UserID.Int()),
		BloodGroup: bloodGroup,
		Location:   req.Location,
	}
	if req.LastDonationDate != nil && *req.LastDonationDate != "" {
		if donor.LastDonationDate, err = parseDate("last_donation_date", *req.LastDonationDate); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Select("id", "role").Where("id = ?", donor.UserID).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user.Role != models.RoleDonor {
			return ErrNotADonor
		}

		if err := tx.Create(&donor).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDonorExists
			}
			return fmt.Errorf("failed to create donor: %w", err)
		}

		synced := make(map[string]interface{})
		if donor.BloodGroup != nil {
			synced["blood_group"] = *donor.BloodGroup
		}
		if donor.Location != nil {
			synced["location"] = *donor.Location
		}
		return syncDonorToUser(tx, donor.UserID, synced)
	})
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

const donorViewColumns = `u.id AS user_id, u.name, u.email,
	COALESCE(d.blood_group, u.blood_group) AS blood_group,
	COALESCE(d.location, u.location) AS location,
	d.id AS donor_id, d.last_donation_date`

// ListDonors returns every donor-role user, with or without a donor row, by name.
func (s *DirectoryService) ListDonors(ctx context.Context) ([]dto.DonorView, error) {
	donors := make([]dto.DonorView, 0)
	err := s.db.WithContext(ctx).
		Table("users AS u").
		Select(donorViewColumns).
		Joins("LEFT JOIN donors d ON u.id = d.user_id").
		Where("u.role = ?", models.RoleDonor).
		Order("u.name").
		Scan(&donors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}
	return donors, nil
}

func (s *DirectoryService) GetDonorByUserID(ctx context.Context, userID uint) (*dto.DonorView, error) {
	var donor dto.DonorView
	result := s.db.WithContext(ctx).
		Table("users AS u").
		Select(donorViewColumns+", u.role").
		Joins("LEFT JOIN donors d ON u.id = d.user_id").
		Where("u.id = ? AND u.role = ?", userID, models.RoleDonor).
		Limit(1).
		Scan(&donor)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get donor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrDonorNotFound
	}
	return &donor, nil
}

// GetDonorByID reads the donor row itself; blood group and location are not
// backfilled from the user.
func (s *DirectoryService) GetDonorByID(ctx context.Context, donorID uint) (*dto.DonorView, error) {
	var donor dto.DonorView
	result := s.db.WithContext(ctx).
		Table("donors AS d").
		Select("d.id AS donor_id, d.user_id, d.blood_group, d.location, d.last_donation_date, u.name, u.email, u.role").
		Joins("LEFT JOIN users u ON d.user_id = u.id").
		Where("d.id = ?", donorID).
		Limit(1).
		Scan(&donor)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get donor record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrDonorRecordNotFound
	}
	return &donor, nil
}

// UpdateDonor applies the present fields of req to a donor row and carries
// blood group and location over to the owning user. It returns the user id.
func (s *DirectoryService) UpdateDonor(ctx context.Context, donorID uint, req *dto.UpdateDonorRequest) (uint, error) {
	bloodGroup, err := bloodGroupField(req.BloodGroup)
	if err != nil {
		return 0, err
	}
	lastDonation, err := dateField("last_donation_date", req.LastDonationDate)
	if err != nil {
		return 0, err
	}

	var donor models.Donor
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Select("id", "user_id").Where("id = ?", donorID).Take(&donor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonorRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get donor record: %w", err)
		}

		b := patch.NewBuilder().
			Add("blood_group", bloodGroup).
			Add("location", req.Location).
			Add("last_donation_date", lastDonation)
		if b.Empty() {
			return ErrNoFieldsToUpdate
		}

		assignments := b.Map()
		if err := tx.Model(&models.Donor{}).Where("id = ?", donorID).Updates(assignments).Error; err != nil {
			return fmt.Errorf("failed to update donor: %w", err)
		}
		return syncDonorToUser(tx, donor.UserID, assignments)
	})
	if err != nil {
		return 0, err
	}
	return donor.UserID, nil
}

// DeleteDonor removes a donor row and returns the user it belonged to. The user is kept.
func (s *DirectoryService) DeleteDonor(ctx context.Context, donorID uint) (uint, error) {
	var donor models.Donor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Select("id", "user_id").Where("id = ?", donorID).Take(&donor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonorRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get donor record: %w", err)
		}
		if err := tx.Where("id = ?", donorID).Delete(&models.Donor{}).Error; err != nil {
			return fmt.Errorf("failed to delete donor: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return donor.UserID, nil
}
