package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	UserID       uuid.UUID `json:"user_id"`
	UserType     string    `json:"user_type"`
}

type UserResponse struct {
	ID              uuid.UUID                `json:"id"`
	Name            string                   `json:"name"`
	Email           string                   `json:"email"`
	Phone           string                   `json:"phone"`
	Gender          string                   `json:"gender"`
	UserType        string                   `json:"user_type"`
	ProfilePhotoURL string                   `json:"profile_photo_url,omitempty"`
	Address         *AddressResponse         `json:"address,omitempty"`
	Provider        *ProviderProfileResponse `json:"provider,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

type AddressResponse struct {
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	District   string `json:"district"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
}
