package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"dessertlab/internal/middleware"
	"dessertlab/internal/services"
)

// OrderHandler handles the customer and admin order views.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orders := router.Group("/orders")
	orders.Get("/", middleware.LoginRequired(), h.HandleMyOrders)

	admin := router.Group("/admin/orders", middleware.AdminRequired())
	admin.Get("/", h.HandleAdminPage)
	admin.Patch("/:id", h.HandleUpdateStatus)
}

// HandleMyOrders serves the read-only order history for the session user.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	orders, err := h.service.OrdersForCustomer(sess.UserEmail())
	if err != nil {
		log.Printf("Error fetching orders for %s: %v", sess.UserEmail(), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Something went wrong while fetching orders",
		})
	}
	return c.JSON(orders)
}

// HandleAdminPage serves one server-side page of orders, optionally
// status-filtered.
func (h *OrderHandler) HandleAdminPage(c *fiber.Ctx) error {
	page, err := h.service.AdminPage(
		c.QueryInt("page", 1),
		c.QueryInt("limit", 10),
		c.Query("status"),
	)
	if err != nil {
		log.Printf("Error fetching order page: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Something went wrong while fetching orders",
		})
	}
	return c.JSON(page)
}

// HandleUpdateStatus transitions an order and answers with an authoritative
// re-fetch of the caller's current page; the caller never patches its own
// copy.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update",
		})
	}

	id := c.Params("id")
	if err := h.service.UpdateStatus(id, req.Status); err != nil {
		log.Printf("Error updating order %s: %v", id, err)
		status := fiber.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		} else if strings.Contains(err.Error(), "invalid order status") ||
			strings.Contains(err.Error(), "accepts no transition") {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Error updating order",
			"error":   err.Error(),
		})
	}

	page, err := h.service.AdminPage(
		c.QueryInt("page", 1),
		c.QueryInt("limit", 10),
		c.Query("status"),
	)
	if err != nil {
		log.Printf("Error re-fetching orders after update: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Order updated but re-fetch failed",
		})
	}
	return c.JSON(page)
}
