package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleOwner    UserRole = "owner"
)

// Valid reports whether r is one of the registrable roles.
func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleOwner
}

// User is also the public profile shape: the credential hash never serializes.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         UserRole  `json:"role" gorm:"size:16;not null;default:'customer'"`
	PhotoURL     *string   `json:"photo_url" gorm:"size:512"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
