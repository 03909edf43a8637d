package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"dessertlab/internal/middleware"
	"dessertlab/internal/models"
	"dessertlab/internal/services"
	"dessertlab/pkg/pincode"
	"dessertlab/pkg/razorpay"
)

// CheckoutHandler handles the payment flow endpoints.
type CheckoutHandler struct {
	service *services.CheckoutService
	pincode *pincode.Client
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, pincodeClient *pincode.Client) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		pincode: pincodeClient,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkout := router.Group("/checkout", middleware.LoginRequired())
	checkout.Get("/state", h.HandleState)
	checkout.Post("/card", h.HandleCard)
	checkout.Post("/cod", h.HandleCOD)
	checkout.Post("/upi/order", h.HandleUPIStart)
	checkout.Post("/upi/verify", h.HandleUPIVerify)
	checkout.Post("/upi/cancel", h.HandleUPICancel)
	checkout.Get("/pincode/:code", h.HandlePincode)
}

// HandleState reports where the session sits in the checkout flow.
func (h *CheckoutHandler) HandleState(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(fiber.Map{"state": h.service.State(sess)})
}

// HandleCard runs the card payment path.
func (h *CheckoutHandler) HandleCard(c *fiber.Ctx) error {
	var details models.CardDetails
	if err := c.BodyParser(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sess := middleware.SessionFrom(c)
	result, err := h.service.PayWithCard(sess, details)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleCOD runs the cash-on-delivery path.
func (h *CheckoutHandler) HandleCOD(c *fiber.Ctx) error {
	var contact models.ContactDetails
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sess := middleware.SessionFrom(c)
	result, err := h.service.PayOnDelivery(sess, contact)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleUPIStart creates the gateway order and returns the widget
// parameters.
func (h *CheckoutHandler) HandleUPIStart(c *fiber.Ctx) error {
	var contact models.ContactDetails
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sess := middleware.SessionFrom(c)
	gwOrder, err := h.service.StartUPI(sess, contact)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(gwOrder)
}

// HandleUPIVerify resolves the gateway round trip with the widget's proof.
func (h *CheckoutHandler) HandleUPIVerify(c *fiber.Ctx) error {
	var proof razorpay.PaymentProof
	if err := c.BodyParser(&proof); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sess := middleware.SessionFrom(c)
	result, err := h.service.VerifyUPI(sess, proof)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleUPICancel mirrors the widget's dismiss event.
func (h *CheckoutHandler) HandleUPICancel(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	h.service.CancelUPI(sess)
	return c.JSON(fiber.Map{"state": services.StateIdle})
}

// HandlePincode resolves a postal code to district/state for address
// auto-fill. A failed lookup is a soft error: the form falls back to
// manual entry.
func (h *CheckoutHandler) HandlePincode(c *fiber.Ctx) error {
	loc, err := h.pincode.Lookup(c.Params("code"))
	if err != nil {
		log.Printf("Pincode lookup failed: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Could not find location for this PIN. You can fill manually.",
		})
	}
	return c.JSON(loc)
}

// checkoutError maps the checkout error taxonomy onto responses: field
// validation errors inline, gateway errors distinctly, everything else as a
// single message. None of them leave the session stuck; the flow is idle
// again.
func (h *CheckoutHandler) checkoutError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	}

	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) {
		log.Printf("Gateway error during checkout: %v", gatewayErr)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": gatewayErr.Message,
		})
	}

	if errors.Is(err, services.ErrEmptyCart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Your cart is empty! Please add items before placing an order.",
		})
	}

	log.Printf("Error during checkout: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Something went wrong",
	})
}
