package dto

// PersonalDataRequest is step one of registration
type PersonalDataRequest struct {
	Name            string               `json:"name" validate:"notblank,max=255"`
	Email           string               `json:"email" validate:"required,email"`
	Password        string               `json:"password" validate:"required,min=6"`
	CPF             string               `json:"cpf" validate:"required,cpf"`
	BirthDate       string               `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Phone           string               `json:"phone" validate:"notblank,max=20"`
	Gender          string               `json:"gender" validate:"notblank,max=20"`
	UserType        string               `json:"user_type" validate:"required,oneof=client provider"`
	ProfilePhotoKey string               `json:"profile_photo_key" validate:"omitempty,max=512"`
	Provider        *ProviderDataRequest `json:"provider,omitempty" validate:"required_if=UserType provider"`
}

type ProviderDataRequest struct {
	TaxID        string `json:"tax_id" validate:"omitempty,max=20"`
	BusinessType string `json:"business_type" validate:"omitempty,max=50"`
	TradeName    string `json:"trade_name" validate:"notblank,max=255"`
	Specialty    string `json:"specialty" validate:"notblank,max=100"`
	Field        string `json:"field" validate:"notblank,max=100"`
	About        string `json:"about" validate:"omitempty,max=2000"`
}

// AddressRequest is step two of registration
type AddressRequest struct {
	PostalCode string `json:"postal_code" validate:"notblank,max=9"`
	City       string `json:"city" validate:"notblank,max=100"`
	State      string `json:"state" validate:"notblank,max=50"`
	District   string `json:"district" validate:"notblank,max=100"`
	Street     string `json:"street" validate:"notblank,max=255"`
	Number     string `json:"number" validate:"notblank,max=20"`
	Complement string `json:"complement" validate:"omitempty,max=255"`
}

type RegisterRequest struct {
	Personal PersonalDataRequest `json:"personal"`
	Address  AddressRequest      `json:"address"`
}
