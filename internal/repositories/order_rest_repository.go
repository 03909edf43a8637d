package repositories

import (
	"fmt"
	"net/url"

	"dessertlab/internal/models"
)

// RESTOrderRepository reads and writes orders through the upstream REST
// backend.
type RESTOrderRepository struct {
	client *RestClient
}

// NewRESTOrderRepository creates an order repository over the backend.
func NewRESTOrderRepository(client *RestClient) *RESTOrderRepository {
	return &RESTOrderRepository{client: client}
}

// Create posts a new order. The backend assigns id, status and timestamps;
// the returned fields are copied back into the order.
func (r *RESTOrderRepository) Create(order *models.Order) error {
	if err := r.client.Post("/api/orders", order, order); err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	return nil
}

// GetByID fetches a single order.
func (r *RESTOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.client.Get("/api/orders/id/"+url.PathEscape(id), &order); err != nil {
		if err == ErrBackendNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return &order, nil
}

// ForCustomer fetches all orders placed under an email.
func (r *RESTOrderRepository) ForCustomer(email string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.client.Get("/api/orders/"+url.PathEscape(email), &orders); err != nil {
		return nil, fmt.Errorf("failed to fetch orders for %s: %w", email, err)
	}
	return orders, nil
}

// Page fetches one server-side page of orders, optionally status-filtered.
func (r *RESTOrderRepository) Page(page, limit int, status string) (*OrderPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	if status != "" {
		q.Set("status", status)
	}
	var resp OrderPage
	if err := r.client.Get("/api/orders/?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch order page: %w", err)
	}
	resp.Page = page
	return &resp, nil
}

// UpdateStatus patches the single status field of an order.
func (r *RESTOrderRepository) UpdateStatus(id string, status string) error {
	body := map[string]string{"status": status}
	if err := r.client.Patch("/api/orders/"+url.PathEscape(id), body, nil); err != nil {
		if err == ErrBackendNotFound {
			return fmt.Errorf("order with ID %s not found for status update", id)
		}
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return nil
}
