package services

import (
	"fmt"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/session"
)

// CartView is the cart plus its freshly derived pricing, rounded for
// display. The breakdown is recomputed on every read, never cached.
type CartView struct {
	Items   []models.CartLine       `json:"items"`
	Pricing models.PricingBreakdown `json:"pricing"`
}

// CartService mutates the session cart. Product details are snapshotted from
// the catalog at add time.
type CartService struct {
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(products repositories.ProductRepository) *CartService {
	return &CartService{products: products}
}

// AddToCart resolves the product and inserts a quantity-1 line. Adding a
// product already in the cart is a no-op: presence is idempotent, quantity
// changes go through Increment.
func (s *CartService) AddToCart(sess *session.Session, productID string) error {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return fmt.Errorf("cannot add to cart: %w", err)
	}
	sess.Do(func(ss *session.Session) {
		ss.Cart.Add(*product)
	})
	return nil
}

// Increment raises a line's quantity by one. Silent no-op for absent ids.
func (s *CartService) Increment(sess *session.Session, productID string) {
	sess.Do(func(ss *session.Session) {
		ss.Cart.Increment(productID)
	})
}

// Decrement lowers a line's quantity by one, removing the line when it
// reaches zero. Silent no-op for absent ids.
func (s *CartService) Decrement(sess *session.Session, productID string) {
	sess.Do(func(ss *session.Session) {
		ss.Cart.Decrement(productID)
	})
}

// View returns the cart lines with the pricing breakdown re-derived from
// the current cart state.
func (s *CartService) View(sess *session.Session) CartView {
	var lines []models.CartLine
	sess.Do(func(ss *session.Session) {
		lines = ss.Cart.Lines()
	})
	return CartView{
		Items:   lines,
		Pricing: models.PriceCart(lines).Rounded(),
	}
}
