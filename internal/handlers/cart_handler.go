package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"dessertlab/internal/middleware"
	"dessertlab/internal/services"
)

// CartHandler handles the session cart endpoints.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cart := router.Group("/cart")
	cart.Get("/", h.HandleView)
	cart.Post("/items", h.HandleAdd)
	cart.Post("/items/:id/increment", h.HandleIncrement)
	cart.Post("/items/:id/decrement", h.HandleDecrement)
}

// HandleView returns the cart with a freshly derived pricing breakdown.
func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(h.service.View(sess))
}

// HandleAdd puts a product into the cart with quantity 1. Re-adding a
// product already present changes nothing.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}

	sess := middleware.SessionFrom(c)
	if err := h.service.AddToCart(sess, req.ProductID); err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(h.service.View(sess))
}

// HandleIncrement raises a line's quantity by one.
func (h *CartHandler) HandleIncrement(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	h.service.Increment(sess, c.Params("id"))
	return c.JSON(h.service.View(sess))
}

// HandleDecrement lowers a line's quantity by one; the line disappears at
// zero.
func (h *CartHandler) HandleDecrement(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	h.service.Decrement(sess, c.Params("id"))
	return c.JSON(h.service.View(sess))
}
