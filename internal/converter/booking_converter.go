package converter

import (
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:          booking.ID,
		Code:        booking.Code,
		ProviderID:  booking.ProviderID,
		ClientID:    booking.ClientID,
		ServiceID:   booking.ServiceID,
		Date:        booking.Date,
		Time:        booking.Time,
		ClientName:  booking.ClientName,
		ServiceName: booking.ServiceName,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
	}
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
