package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"dessertlab/internal/models"
)

// MockProductRepository is an in-memory ProductRepository, used in tests and
// in the seeded demo mode.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	order    []string // insertion order, so GetAll is deterministic
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products in insertion order.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
