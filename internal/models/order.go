package models

import "time"

// Order statuses. New orders are created as "Pending"; the admin transitions
// emit lowercase values. The casing mismatch is what the backend stores and
// filters on, so it is kept as-is.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is a cart line frozen at order placement time.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"price"`
	Quantity    int     `json:"qty"`
}

// Order is a submitted, priced, and persisted cart with a status.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string      `json:"userId" gorm:"index;type:varchar(36)"`
	Email         string      `json:"email" gorm:"index;type:varchar(255)"`
	Items         []OrderItem `json:"items" gorm:"serializer:json"`
	OrderValue    float64     `json:"orderValue"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CanTransitionTo reports whether the order may move to the given status.
// Only pending orders accept a transition, and only to completed or
// cancelled.
func (o *Order) CanTransitionTo(status string) bool {
	if o.Status != OrderStatusPending {
		return false
	}
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// OrderItemsFromCart snapshots cart lines into order items.
func OrderItemsFromCart(lines []CartLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}
	return items
}
