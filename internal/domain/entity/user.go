package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeClient   UserType = "client"
	UserTypeProvider UserType = "provider"
)

// Identity is the credential record owned by the identity gateway.
// Its ID becomes the User ID.
type Identity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Identity) TableName() string {
	return "identities"
}

func (i *Identity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// User is the profile document for a registered person
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone           string     `gorm:"type:varchar(20)" json:"phone"`
	Gender          string     `gorm:"type:varchar(20)" json:"gender"`
	CPF             string     `gorm:"column:cpf;type:char(11);not null" json:"cpf"`
	BirthDate       string     `gorm:"type:varchar(10)" json:"birth_date,omitempty"`
	UserType        UserType   `gorm:"type:varchar(20);not null;index" json:"user_type"`
	ProfilePhotoRef string     `gorm:"type:text" json:"profile_photo_ref,omitempty"`
	AddressID       *uuid.UUID `gorm:"type:uuid" json:"address_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsProvider() bool {
	return u.UserType == UserTypeProvider
}
