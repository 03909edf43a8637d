package repositories

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dessertlab/internal/models"
)

// GORMOrderRepository is the order store for local mode.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts a new order. New orders always start pending.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.Status = models.OrderStatusPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ForCustomer retrieves every order placed under an email, newest first.
func (r *GORMOrderRepository) ForCustomer(email string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("email = ?", email).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for %s: %w", email, err)
	}
	return orders, nil
}

// Page returns one page of orders, optionally filtered by status.
func (r *GORMOrderRepository) Page(page, limit int, status string) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	q := r.db.Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order page: %w", err)
	}

	totalPages := int(math.Ceil(float64(count) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return &OrderPage{Orders: orders, Page: page, TotalPages: totalPages}, nil
}

// UpdateStatus updates the single status field of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}
