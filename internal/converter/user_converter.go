package converter

import (
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Address and provider profile are attached when given.
func UserToResponse(user *entity.User, address *entity.Address, profile *entity.ProviderProfile, photoURL string) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Gender:          user.Gender,
		UserType:        string(user.UserType),
		ProfilePhotoURL: photoURL,
		Address:         AddressToResponse(address),
		CreatedAt:       user.CreatedAt,
	}

	if profile != nil && user.IsProvider() {
		response.Provider = ProviderProfileToResponse(profile)
	}

	return response
}
