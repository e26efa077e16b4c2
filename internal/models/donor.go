package models

import (
	"time"

	"gorm.io/datatypes"
)

// Donor holds donation history for a donor-role user. At most one row exists per user.
type Donor struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	BloodGroup       *string         `gorm:"size:5" json:"blood_group"`
	Location         *string         `gorm:"size:255" json:"location"`
	LastDonationDate *datatypes.Date `json:"last_donation_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	User             User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
