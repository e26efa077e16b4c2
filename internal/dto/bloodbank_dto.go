package dto

import (
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/patch"
	"gorm.io/datatypes"
)

// --- Requests ---

type CreateBloodRequest struct {
	HospitalID FlexInt `json:"hospital_id" validate:"required,gt=0"`
	BloodGroup string  `json:"blood_group" validate:"required,bloodgroup"`
	Quantity   FlexInt `json:"quantity"`
}

type UpdateRequestStatusRequest struct {
	Status *string `json:"status"`
}

type RequestStatusResponse struct {
	Message string               `json:"message"`
	Status  models.RequestStatus `json:"status"`
}

// --- Donations ---

type RecordDonationRequest struct {
	DonorID      FlexInt  `json:"donor_id" validate:"required,gt=0"`
	BloodGroup   string   `json:"blood_group" validate:"omitempty,bloodgroup"`
	Quantity     *FlexInt `json:"quantity"`
	DonationDate string   `json:"donation_date"`
}

// --- Profiles ---

type ProfileResponse struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Role             models.Role     `json:"role"`
	BloodGroup       *string         `json:"blood_group"`
	Location         *string         `json:"location"`
	LastDonationDate *datatypes.Date `json:"last_donation_date"`
}

// UpdateUserRequest is a partial profile update; absent keys are left unchanged.
type UpdateUserRequest struct {
	Name       patch.Field[string] `json:"name"`
	Email      patch.Field[string] `json:"email"`
	BloodGroup patch.Field[string] `json:"blood_group"`
	Location   patch.Field[string] `json:"location"`
	Password   patch.Field[string] `json:"password"`
}

// --- Donors ---

type CreateDonorRequest struct {
	UserID           FlexInt `json:"user_id" validate:"required,gt=0"`
	BloodGroup       *string `json:"blood_group" validate:"omitempty,bloodgroup"`
	Location         *string `json:"location"`
	LastDonationDate *string `json:"last_donation_date"`
}

type UpdateDonorRequest struct {
	BloodGroup       patch.Field[string] `json:"blood_group"`
	Location         patch.Field[string] `json:"location"`
	LastDonationDate patch.Field[string] `json:"last_donation_date"`
}

// DonorView joins a donor-role user with its optional donors row. BloodGroup and
// Location prefer the donors row and fall back to the user.
type DonorView struct {
	UserID           uint            `json:"user_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Role             models.Role     `json:"role,omitempty"`
	BloodGroup       *string         `json:"blood_group"`
	Location         *string         `json:"location"`
	DonorID          *uint           `json:"donor_id"`
	LastDonationDate *datatypes.Date `json:"last_donation_date"`
}
