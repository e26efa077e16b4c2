package dto

import "github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"

type RegisterRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required"`
	Role       string  `json:"role" validate:"required,oneof=donor hospital admin"`
	BloodGroup *string `json:"blood_group" validate:"omitempty,bloodgroup"`
	Location   *string `json:"location"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message     string      `json:"message"`
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	BloodGroup  *string     `json:"blood_group"`
	Location    *string     `json:"location"`
	AccessToken string      `json:"access_token,omitempty"`
}

type HospitalResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Location *string `json:"location"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
