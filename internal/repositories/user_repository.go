package repositories

import (
	"dessertlab/internal/models"
)

// UserPage is one server-side page of users for the admin view.
type UserPage struct {
	Users      []models.User `json:"users"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total"`
}

// UserDirectory is the contract the storefront consumes for everything
// user-facing: credentials, profiles, and the admin user list. It is
// satisfied by the REST-backed repository in rest mode and by the auth
// service over a UserRepository in local mode.
type UserDirectory interface {
	Login(email, password string) (*models.User, error)
	Register(user *models.User) error
	Profile(id string) (*models.User, error)
	SaveProfile(id string, update *models.User) (*models.User, error)
	List(page, limit int, search string) (*UserPage, error)
	Delete(id string) error
}

// UserRepository defines the interface for user data access in local mode.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Save(user *models.User) error
	// List returns a paginated slice of users whose first name contains the
	// search term; an empty term matches everyone.
	List(page, limit int, search string) (*UserPage, error)
	Delete(id string) error
}
