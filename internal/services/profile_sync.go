package services

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/patch"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Columns cached on both users and donors. A write to either side carries over.
var mirroredColumns = []string{"blood_group", "location"}

func mirrored(assignments map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, col := range mirroredColumns {
		if v, ok := assignments[col]; ok {
			out[col] = v
		}
	}
	return out
}

// syncUserToDonor copies mirrored columns from a user update onto the user's donor row, if any.
func syncUserToDonor(tx *gorm.DB, userID uint, assignments map[string]interface{}) error {
	fields := mirrored(assignments)
	if len(fields) == 0 {
		return nil
	}
	if err := tx.Model(&models.Donor{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to sync donor record: %w", err)
	}
	return nil
}

// syncDonorToUser copies mirrored columns from a donor write onto the owning user.
func syncDonorToUser(tx *gorm.DB, userID uint, assignments map[string]interface{}) error {
	fields := mirrored(assignments)
	if len(fields) == 0 {
		return nil
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to sync user profile: %w", err)
	}
	return nil
}

// bloodGroupField normalizes a patched blood group. An empty string clears the column.
func bloodGroupField(f patch.Field[string]) (patch.Field[string], error) {
	if f.Value == nil {
		return f, nil
	}
	g, err := bloodGroupPtr(f.Value)
	if err != nil {
		return f, err
	}
	if g == nil {
		return patch.Null[string](), nil
	}
	return patch.Of(*g), nil
}

func dateField(name string, f patch.Field[string]) (patch.Field[datatypes.Date], error) {
	if !f.Set {
		return patch.Field[datatypes.Date]{}, nil
	}
	if f.Value == nil || *f.Value == "" {
		return patch.Null[datatypes.Date](), nil
	}
	d, err := parseDate(name, *f.Value)
	if err != nil {
		return patch.Field[datatypes.Date]{}, err
	}
	return patch.Of(*d), nil
}
