package converter

import (
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
)

// LedgerToResponse converts a ledger and its active bookings to AvailabilityResponse DTO.
// A nil ledger renders as an empty day.
func LedgerToResponse(providerID uuid.UUID, date string, ledger *entity.AvailabilityLedger, bookings []entity.Booking) *dto.AvailabilityResponse {
	response := &dto.AvailabilityResponse{
		ProviderID: providerID,
		Date:       date,
		Slots:      []string{},
		Bookings:   make([]dto.LedgerBookingResponse, 0, len(bookings)),
	}

	if ledger != nil {
		response.Slots = append(response.Slots, ledger.Slots...)
		response.Version = ledger.Version
	}

	for _, b := range bookings {
		response.Bookings = append(response.Bookings, dto.LedgerBookingResponse{
			ID:          b.ID,
			Time:        b.Time,
			ClientName:  b.ClientName,
			ServiceName: b.ServiceName,
		})
	}

	return response
}
