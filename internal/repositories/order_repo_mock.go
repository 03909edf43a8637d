package repositories

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dessertlab/internal/models"
)

// MockOrderRepository is an in-memory OrderRepository, used in tests and in
// the seeded demo mode.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order. New orders always start pending.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.Status = models.OrderStatusPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// ForCustomer returns every order placed under an email, newest first.
func (r *MockOrderRepository) ForCustomer(email string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Order
	for _, order := range r.orders {
		if order.Email == email {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Page returns one page of orders, optionally filtered by status, newest
// first.
func (r *MockOrderRepository) Page(page, limit int, status string) (*OrderPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var filtered []models.Order
	for _, order := range r.orders {
		if status == "" || order.Status == status {
			filtered = append(filtered, order)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	totalPages := int(math.Ceil(float64(len(filtered)) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return &OrderPage{
		Orders:     filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
