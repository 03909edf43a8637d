package services

import (
	"fmt"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
)

// OrderService handles the customer and admin order views.
type OrderService struct {
	repo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repositories.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// OrdersForCustomer retrieves the read-only order history for an email.
func (s *OrderService) OrdersForCustomer(email string) ([]models.Order, error) {
	if email == "" {
		return nil, fmt.Errorf("no customer email for order lookup")
	}
	return s.repo.ForCustomer(email)
}

// AdminPage retrieves one server-side page of orders, optionally filtered
// by status.
func (s *OrderService) AdminPage(page, limit int, status string) (*repositories.OrderPage, error) {
	return s.repo.Page(page, limit, status)
}

// UpdateStatus transitions an order. Only pending orders move, and only to
// completed or cancelled; callers re-fetch the page afterwards rather than
// patching their copy, the re-fetch is authoritative.
func (s *OrderService) UpdateStatus(id string, status string) error {
	if status != models.OrderStatusCompleted && status != models.OrderStatusCancelled {
		return fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", id, err)
	}
	if !order.CanTransitionTo(status) {
		return fmt.Errorf("order %s is %s and accepts no transition", id, order.Status)
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}
