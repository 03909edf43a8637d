package models

import "gorm.io/gorm"

// User roles as the backend reports them.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a storefront customer or admin.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FirstName  string `json:"firstname" validate:"required,min=1,max=100"`
	LastName   string `json:"lastname" validate:"omitempty,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone      string `json:"phoneNo" validate:"omitempty,max=20"`
	Role       string `json:"role" gorm:"type:varchar(20);default:customer"`
	// Parsed from request bodies; every service blanks it before a User
	// is written to a response.
	Password   string `json:"password,omitempty" gorm:"type:varchar(255)" validate:"omitempty,min=6"`
	Token      string `json:"token,omitempty" gorm:"-"` // issued at login, never stored
	gorm.Model `json:"-"`
}
