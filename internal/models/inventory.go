package models

import (
	"strings"
	"time"
)

// BloodGroups lists the ABO/Rh groups accepted as inventory keys.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func NormalizeBloodGroup(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func ValidBloodGroup(s string) bool {
	for _, g := range BloodGroups {
		if g == s {
			return true
		}
	}
	return false
}

// InventoryEntry is the stock of one blood group. Units never drop below zero.
type InventoryEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BloodGroup string    `gorm:"size:5;not null;uniqueIndex" json:"blood_group"`
	Units      int       `gorm:"not null;check:chk_inventory_units_non_negative,units >= 0" json:"units"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (InventoryEntry) TableName() string { return "inventory" }
