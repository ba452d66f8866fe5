package converter

import (
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
)

// ProviderProfileToResponse converts a ProviderProfile entity to ProviderProfileResponse DTO
func ProviderProfileToResponse(profile *entity.ProviderProfile) *dto.ProviderProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProviderProfileResponse{
		UserID:       profile.UserID,
		TaxID:        profile.TaxID,
		BusinessType: profile.BusinessType,
		TradeName:    profile.TradeName,
		Specialty:    profile.Specialty,
		Field:        profile.Field,
		About:        profile.About,
	}
}

func CategoryToResponse(category *entity.Category) *dto.CategoryResponse {
	if category == nil {
		return nil
	}

	return &dto.CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
	}
}

func CategoriesToResponses(categories []entity.Category) []dto.CategoryResponse {
	responses := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *CategoryToResponse(&categories[i])
	}
	return responses
}

// ServiceToResponse converts a Service entity to ServiceResponse DTO; imageURL is already resolved
func ServiceToResponse(service *entity.Service, imageURL string) *dto.ServiceResponse {
	if service == nil {
		return nil
	}

	return &dto.ServiceResponse{
		ID:           service.ID,
		ProviderID:   service.ProviderID,
		CategoryID:   service.CategoryID,
		Description:  service.Description,
		Price:        service.Price,
		IsActive:     service.IsActive,
		IsAvailable:  service.IsAvailable,
		HasVariants:  service.HasVariants,
		VariantLabel: service.VariantLabel,
		ImageURL:     imageURL,
		CreatedAt:    service.CreatedAt,
	}
}

// ServiceToListing flattens a service with its provider's display fields
func ServiceToListing(service *entity.Service, imageURL, providerName, specialty, city, district string) dto.ServiceListingResponse {
	return dto.ServiceListingResponse{
		ID:           service.ID,
		Description:  service.Description,
		CategoryID:   service.CategoryID,
		Price:        service.Price,
		IsAvailable:  service.IsAvailable,
		HasVariants:  service.HasVariants,
		VariantLabel: service.VariantLabel,
		ImageURL:     imageURL,
		ProviderID:   service.ProviderID,
		ProviderName: providerName,
		Specialty:    specialty,
		City:         city,
		District:     district,
		CreatedAt:    service.CreatedAt,
	}
}

func ReviewToResponse(review *entity.Review) *dto.ReviewResponse {
	if review == nil {
		return nil
	}

	return &dto.ReviewResponse{
		ID:         review.ID,
		ProviderID: review.ProviderID,
		ClientName: review.ClientName,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}

func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = *ReviewToResponse(&reviews[i])
	}
	return responses
}
