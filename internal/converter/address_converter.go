package converter

import (
	"strings"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
)

// AddressToResponse converts an Address entity to AddressResponse DTO
func AddressToResponse(address *entity.Address) *dto.AddressResponse {
	if address == nil {
		return nil
	}

	return &dto.AddressResponse{
		PostalCode: address.PostalCode,
		City:       address.City,
		State:      address.State,
		District:   address.District,
		Street:     address.Street,
		Number:     address.Number,
		Complement: address.Complement,
	}
}

// AddressRequestToEntity trims the submitted address fields
func AddressRequestToEntity(req *dto.AddressRequest) *entity.Address {
	return &entity.Address{
		PostalCode: strings.TrimSpace(req.PostalCode),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		District:   strings.TrimSpace(req.District),
		Street:     strings.TrimSpace(req.Street),
		Number:     strings.TrimSpace(req.Number),
		Complement: strings.TrimSpace(req.Complement),
	}
}
