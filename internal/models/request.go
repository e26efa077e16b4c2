package models

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// BloodRequest is a hospital's ask for units of one blood group.
type BloodRequest struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	HospitalID   uint          `gorm:"not null;index" json:"hospital_id"`
	BloodGroup   string        `gorm:"size:5;not null" json:"blood_group"`
	Quantity     int           `gorm:"not null;check:chk_requests_quantity_positive,quantity > 0" json:"quantity"`
	Status       RequestStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	HospitalName *string       `gorm:"->;-:migration" json:"hospital_name"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Hospital     User          `gorm:"foreignKey:HospitalID" json:"-"`
}

func (BloodRequest) TableName() string { return "requests" }
