package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateServiceRequest struct {
	Description  string          `json:"description" validate:"notblank,max=2000"`
	CategoryID   int             `json:"category_id" validate:"required,min=1"`
	Price        decimal.Decimal `json:"price"`
	HasVariants  bool            `json:"has_variants"`
	VariantLabel string          `json:"variant_label" validate:"required_if=HasVariants true,max=100"`
	ImageKey     string          `json:"image_key" validate:"omitempty,max=512"`
	IsActive     *bool           `json:"is_active"`
	IsAvailable  *bool           `json:"is_available"`
}

// Response DTOs

type ServiceResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProviderID   uuid.UUID       `json:"provider_id"`
	CategoryID   int             `json:"category_id"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
	IsAvailable  bool            `json:"is_available"`
	HasVariants  bool            `json:"has_variants"`
	VariantLabel string          `json:"variant_label,omitempty"`
	ImageURL     string          `json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
