package repositories

import (
	"dessertlab/internal/models"
)

// OrderPage is one server-side page of orders for the admin view.
type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// ForCustomer returns every order placed under the given email.
	ForCustomer(email string) ([]models.Order, error)
	// Page returns a paginated, optionally status-filtered slice of all
	// orders. An empty status means no filter.
	Page(page, limit int, status string) (*OrderPage, error)
	UpdateStatus(id string, status string) error
}
