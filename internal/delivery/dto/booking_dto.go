package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	ProviderID uuid.UUID `json:"provider_id" validate:"required"`
	ServiceID  uuid.UUID `json:"service_id" validate:"required"`
	Date       string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string    `json:"time" validate:"required,hhmm"`
}

// Response DTOs

type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	ProviderID  uuid.UUID `json:"provider_id"`
	ClientID    uuid.UUID `json:"client_id"`
	ServiceID   uuid.UUID `json:"service_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ClientName  string    `json:"client_name"`
	ServiceName string    `json:"service_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// SlotTakenResponse lets the client prompt for another slot from a fresh list
type SlotTakenResponse struct {
	Code           string   `json:"code"`
	AvailableSlots []string `json:"available_slots"`
}
