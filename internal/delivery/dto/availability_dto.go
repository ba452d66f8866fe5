package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// SetSlotsRequest replaces the day's slot list. ExpectedVersion makes the write conditional.
type SetSlotsRequest struct {
	Slots           []string `json:"slots" validate:"dive,hhmm"`
	ExpectedVersion *int     `json:"expected_version" validate:"omitempty,gte=0"`
}

type RenameSlotRequest struct {
	Label           string `json:"label" validate:"required,hhmm"`
	ExpectedVersion *int   `json:"expected_version" validate:"omitempty,gte=0"`
}

// Response DTOs

type LedgerBookingResponse struct {
	ID          uuid.UUID `json:"id"`
	Time        string    `json:"time"`
	ClientName  string    `json:"client_name"`
	ServiceName string    `json:"service_name"`
}

type AvailabilityResponse struct {
	ProviderID uuid.UUID               `json:"provider_id"`
	Date       string                  `json:"date"`
	Slots      []string                `json:"slots"`
	Bookings   []LedgerBookingResponse `json:"bookings"`
	Version    int                     `json:"version"`
}

type BookingOptionsResponse struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Date       string    `json:"date"`
	Slots      []string  `json:"slots"`
}
