package repositories

import (
	"fmt"
	"net/url"

	"dessertlab/internal/models"
)

// RESTProductRepository reads and writes the catalog through the upstream
// REST backend.
type RESTProductRepository struct {
	client *RestClient
}

// NewRESTProductRepository creates a product repository over the backend.
func NewRESTProductRepository(client *RestClient) *RESTProductRepository {
	return &RESTProductRepository{client: client}
}

// GetAll fetches the full catalog in one call. The backend paginates, so a
// deliberately large limit is requested; search/sort/paginate happen on the
// materialized set client-side. Acceptable only because the catalog is small.
func (r *RESTProductRepository) GetAll() ([]models.Product, error) {
	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := r.client.Get("/api/products?page=1&limit=1000", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return resp.Products, nil
}

// GetByID fetches a single product.
func (r *RESTProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.client.Get("/api/products/"+url.PathEscape(id), &product); err != nil {
		if err == ErrBackendNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &product, nil
}

// Create adds a product through the backend (admin).
func (r *RESTProductRepository) Create(product *models.Product) error {
	if err := r.client.Post("/api/products", product, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update patches an existing product through the backend (admin).
func (r *RESTProductRepository) Update(product *models.Product) error {
	if err := r.client.Patch("/api/products/"+url.PathEscape(product.ID), product, nil); err != nil {
		if err == ErrBackendNotFound {
			return fmt.Errorf("product with ID %s not found for update", product.ID)
		}
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product through the backend (admin).
func (r *RESTProductRepository) Delete(id string) error {
	if err := r.client.Delete("/api/products/" + url.PathEscape(id)); err != nil {
		if err == ErrBackendNotFound {
			return fmt.Errorf("product with ID %s not found for deletion", id)
		}
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}
