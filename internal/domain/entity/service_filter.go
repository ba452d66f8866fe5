package entity

import "github.com/google/uuid"

// ServiceFilter is a domain-level filter for querying the catalog.
// Used by repository layer to avoid coupling with delivery DTOs.
type ServiceFilter struct {
	CategoryID      *int
	ProviderID      *uuid.UUID
	IncludeInactive bool
}
