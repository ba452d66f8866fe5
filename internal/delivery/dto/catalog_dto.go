package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// Response DTOs

type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

type CategoryDetailResponse struct {
	Category CategoryResponse         `json:"category"`
	Services []ServiceListingResponse `json:"services"`
}

// ServiceListingResponse is a service joined with its provider and the provider's location
type ServiceListingResponse struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	CategoryID   int             `json:"category_id"`
	Price        decimal.Decimal `json:"price"`
	IsAvailable  bool            `json:"is_available"`
	HasVariants  bool            `json:"has_variants"`
	VariantLabel string          `json:"variant_label,omitempty"`
	ImageURL     string          `json:"image_url"`
	ProviderID   uuid.UUID       `json:"provider_id"`
	ProviderName string          `json:"provider_name"`
	Specialty    string          `json:"specialty"`
	City         string          `json:"city"`
	District     string          `json:"district"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ServiceListingListResponse struct {
	Services []ServiceListingResponse `json:"services"`
	Total    int                      `json:"total"`
}

type ProviderProfileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	TaxID        string    `json:"tax_id,omitempty"`
	BusinessType string    `json:"business_type"`
	TradeName    string    `json:"trade_name"`
	Specialty    string    `json:"specialty"`
	Field        string    `json:"field"`
	About        string    `json:"about,omitempty"`
}

type ProviderPageResponse struct {
	Profile       ProviderProfileResponse  `json:"profile"`
	Name          string                   `json:"name"`
	PhotoURL      string                   `json:"photo_url"`
	City          string                   `json:"city"`
	District      string                   `json:"district"`
	Services      []ServiceListingResponse `json:"services"`
	Reviews       []ReviewResponse         `json:"reviews"`
	AverageRating float64                  `json:"average_rating"`
	ReviewCount   int                      `json:"review_count"`
}

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	ClientName string    `json:"client_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
