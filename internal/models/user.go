package models

import "time"

type Role string

const (
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

// User is a registered donor, hospital or administrator.
// BloodGroup and Location are mirrored on the paired Donor row for donor-role users.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Role       Role      `gorm:"size:20;not null;index" json:"role"`
	BloodGroup *string   `gorm:"size:5" json:"blood_group"`
	Location   *string   `gorm:"size:255" json:"location"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
