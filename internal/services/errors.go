package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError is a missing or malformed input, detected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError is a uniqueness violation (duplicate email, second donor row).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InsufficientInventoryError reports a decrement larger than the available stock.
// NoStock is set when the blood group has no inventory row at all.
type InsufficientInventoryError struct {
	BloodGroup string
	Available  int
	Requested  int
	NoStock    bool
}

func (e *InsufficientInventoryError) Error() string {
	if e.NoStock {
		return fmt.Sprintf("No inventory available for blood group %s", e.BloodGroup)
	}
	return fmt.Sprintf("Insufficient inventory. Available: %d units, Requested: %d units", e.Available, e.Requested)
}

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")

	ErrInvalidQuantity  = &ValidationError{Message: "Quantity must be a positive integer"}
	ErrInvalidStatus    = &ValidationError{Message: "Invalid status. Must be 'approved', 'rejected', or 'pending'"}
	ErrNoFieldsToUpdate = &ValidationError{Message: "No fields to update"}
	ErrNotADonor        = &ValidationError{Message: "User is not a donor"}

	ErrUserNotFound        = &NotFoundError{Message: "User not found"}
	ErrHospitalNotFound    = &NotFoundError{Message: "Hospital not found"}
	ErrDonorNotFound       = &NotFoundError{Message: "Donor not found"}
	ErrDonorRecordNotFound = &NotFoundError{Message: "Donor record not found"}
	ErrRequestNotFound     = &NotFoundError{Message: "Request not found"}

	ErrEmailTaken  = &ConflictError{Message: "Email already exists"}
	ErrDonorExists = &ConflictError{Message: "Donor record already exists for this user"}
)

func invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
