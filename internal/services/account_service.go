package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"gorm.io/gorm"
)

type AccountService struct {
	db     *gorm.DB
	tokens *TokenIssuer
}

func NewAccountService(db *gorm.DB, tokens *TokenIssuer) *AccountService {
	return &AccountService{db: db, tokens: tokens}
}

// Register creates a user. Donors also get their donor row in the same transaction.
func (s *AccountService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	bloodGroup, err := bloodGroupPtr(req.BloodGroup)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Password:   req.Password,
		Role:       models.Role(req.Role),
		BloodGroup: bloodGroup,
		Location:   req.Location,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if user.Role != models.RoleDonor {
			return nil
		}
		donor := models.Donor{
			UserID:     user.ID,
			BloodGroup: user.BloodGroup,
			Location:   user.Location,
		}
		if err := tx.Create(&donor).Error; err != nil {
			return fmt.Errorf("failed to create donor record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the stored password as-is and returns the user's profile.
func (s *AccountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND password = ?", strings.TrimSpace(req.Email), req.Password).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &dto.LoginResponse{
		Message:     "Login successful",
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		BloodGroup:  user.BloodGroup,
		Location:    user.Location,
		AccessToken: token,
	}, nil
}

func (s *AccountService) ListHospitals(ctx context.Context) ([]dto.HospitalResponse, error) {
	hospitals := make([]dto.HospitalResponse, 0)
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "name", "email", "location").
		Where("role = ?", models.RoleHospital).
		Order("name").
		Scan(&hospitals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}
