package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/session"
	"dessertlab/pkg/razorpay"
)

// CheckoutState is where a session currently sits in the checkout flow.
// Processing is only reachable from validating; failed always returns the
// flow to idle after the error is surfaced.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StateProcessing CheckoutState = "processing"
	StateSucceeded  CheckoutState = "succeeded"
	StateFailed     CheckoutState = "failed"
)

// CheckoutResult is a confirmed placement: the order, the priced breakdown
// it was submitted with, and the navigation intent for the routing layer.
type CheckoutResult struct {
	OrderID  string                  `json:"orderId"`
	Pricing  models.PricingBreakdown `json:"pricing"`
	Redirect string                  `json:"redirect"`
}

// EventPublisher emits the order-placed event. Satisfied by the rabbitmq
// client; a nil publisher skips publication.
type EventPublisher interface {
	PublishOrderPlaced(event map[string]interface{}) error
}

// pendingUPI is an in-flight gateway round trip: the gateway order was
// created and the client-side widget now owns the interaction until it
// resolves (verify) or is dismissed (cancel).
type pendingUPI struct {
	gatewayOrderID string
	contact        models.ContactDetails
}

// CheckoutService drives the checkout flow: validate the payment form,
// price the cart, hand off to one of the three payment paths, and on
// success persist the order and clear the cart.
type CheckoutService struct {
	orders   repositories.OrderRepository
	gateway  *razorpay.Client
	events   EventPublisher
	validate *validator.Validate

	mu      sync.Mutex
	states  map[string]CheckoutState // session id -> flow state
	pending map[string]*pendingUPI   // session id -> in-flight gateway order
}

// NewCheckoutService creates a CheckoutService. The gateway client may be
// nil when the UPI path is not configured; events may be nil to skip event
// publication.
func NewCheckoutService(orders repositories.OrderRepository, gateway *razorpay.Client, events EventPublisher) *CheckoutService {
	v := validator.New()
	// Card-form rules beyond the built-in tags.
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return models.ValidCardNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return models.ValidExpiry(fl.Field().String())
	})

	return &CheckoutService{
		orders:   orders,
		gateway:  gateway,
		events:   events,
		validate: v,
		states:   make(map[string]CheckoutState),
		pending:  make(map[string]*pendingUPI),
	}
}

// State returns the session's current checkout state. Failed is surfaced
// exactly once; the next read finds the flow idle and interactive again.
func (s *CheckoutService) State(sess *session.Session) CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sess.ID]
	if !ok {
		return StateIdle
	}
	if st == StateFailed {
		delete(s.states, sess.ID)
	}
	return st
}

func (s *CheckoutService) setState(sessionID string, st CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st == StateIdle {
		delete(s.states, sessionID)
		return
	}
	s.states[sessionID] = st
}

// fieldMessages maps struct fields to the user-facing messages shown inline
// next to the form field.
var fieldMessages = map[string]string{
	"CardNumber": "Please enter a valid 16-digit card number",
	"CardHolder": "Card holder name is required",
	"Expiry":     "Please use MM/YY format",
	"CVV":        "CVV must be 3-4 digits",
	"Email":      "Please enter a valid email",
	"Phone":      "Phone number is required",
	"Address":    "Delivery address is required",
	"City":       "City is required",
	"State":      "State is required",
	"PostalCode": "Valid 6-digit PIN is required",
}

// validateForm runs struct validation and converts failures into the
// field-keyed recoverable error.
func (s *CheckoutService) validateForm(form interface{}) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("form validation failed: %w", err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("Field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}

// PayWithCard runs the card path: validate every card and contact field,
// then place the order. No real card authorization happens here; the card
// details never leave the process.
func (s *CheckoutService) PayWithCard(sess *session.Session, details models.CardDetails) (*CheckoutResult, error) {
	if s.cartIsEmpty(sess) {
		return nil, ErrEmptyCart
	}

	s.setState(sess.ID, StateValidating)
	if err := s.validateForm(details); err != nil {
		s.setState(sess.ID, StateFailed)
		return nil, err
	}

	s.setState(sess.ID, StateProcessing)
	return s.placeOrder(sess, models.PaymentMethodCard, details.Email)
}

// PayOnDelivery runs the cash-on-delivery path: contact and address fields
// only, no payment instrument.
func (s *CheckoutService) PayOnDelivery(sess *session.Session, contact models.ContactDetails) (*CheckoutResult, error) {
	if s.cartIsEmpty(sess) {
		return nil, ErrEmptyCart
	}

	s.setState(sess.ID, StateValidating)
	if err := s.validateForm(contact); err != nil {
		s.setState(sess.ID, StateFailed)
		return nil, err
	}

	s.setState(sess.ID, StateProcessing)
	return s.placeOrder(sess, models.PaymentMethodCOD, contact.Email)
}

// StartUPI begins the gateway round trip: validate the contact form, create
// a gateway order for the rounded total, and return the widget parameters.
// The cart is not touched; a failure here is recoverable.
func (s *CheckoutService) StartUPI(sess *session.Session, contact models.ContactDetails) (*razorpay.GatewayOrder, error) {
	if s.gateway == nil {
		return nil, &GatewayError{Message: "UPI payments are not configured"}
	}
	if s.cartIsEmpty(sess) {
		return nil, ErrEmptyCart
	}

	s.setState(sess.ID, StateValidating)
	if err := s.validateForm(contact); err != nil {
		s.setState(sess.ID, StateFailed)
		return nil, err
	}

	var lines []models.CartLine
	sess.Do(func(ss *session.Session) {
		lines = ss.Cart.Lines()
	})
	total := models.PriceCart(lines).Rounded().Total

	itemNotes := make([]string, 0, len(lines))
	for _, line := range lines {
		itemNotes = append(itemNotes, fmt.Sprintf("%sx%d", line.ProductName, line.Quantity))
	}
	receipt := fmt.Sprintf("rcpt_%d", time.Now().UnixMilli())
	notes := map[string]string{
		"email": contact.Email,
		"items": strings.Join(itemNotes, ", "),
	}

	gwOrder, err := s.gateway.CreateOrder(total, "INR", receipt, notes)
	if err != nil {
		s.setState(sess.ID, StateFailed)
		return nil, &GatewayError{Message: "Failed to create payment order", Err: err}
	}

	s.mu.Lock()
	s.pending[sess.ID] = &pendingUPI{gatewayOrderID: gwOrder.OrderID, contact: contact}
	s.mu.Unlock()
	s.setState(sess.ID, StateProcessing)

	return gwOrder, nil
}

// VerifyUPI is the single resolution point of the gateway round trip. The
// widget-supplied proof is checked server-side; success places the order,
// any failure surfaces a recoverable gateway error without mutating the
// cart.
func (s *CheckoutService) VerifyUPI(sess *session.Session, proof razorpay.PaymentProof) (*CheckoutResult, error) {
	s.mu.Lock()
	pending := s.pending[sess.ID]
	delete(s.pending, sess.ID)
	s.mu.Unlock()

	if pending == nil || pending.gatewayOrderID != proof.OrderID {
		s.setState(sess.ID, StateFailed)
		return nil, &GatewayError{Message: "No matching payment in progress"}
	}

	ok, err := s.gateway.VerifyPayment(proof)
	if err != nil {
		s.setState(sess.ID, StateFailed)
		return nil, &GatewayError{Message: "Verification error. Please try again.", Err: err}
	}
	if !ok {
		s.setState(sess.ID, StateFailed)
		return nil, &GatewayError{Message: "Verification failed. Please contact support."}
	}

	return s.placeOrder(sess, models.PaymentMethodUPI, pending.contact.Email)
}

// CancelUPI matches the widget's dismiss event: the in-flight gateway order
// is dropped and the flow returns to idle. The cart is untouched.
func (s *CheckoutService) CancelUPI(sess *session.Session) {
	s.mu.Lock()
	delete(s.pending, sess.ID)
	s.mu.Unlock()
	s.setState(sess.ID, StateIdle)
}

func (s *CheckoutService) cartIsEmpty(sess *session.Session) bool {
	empty := true
	sess.Do(func(ss *session.Session) {
		empty = ss.Cart.IsEmpty()
	})
	return empty
}

// placeOrder prices the cart, persists the order, publishes the
// order-placed event, and clears the cart. The cart is cleared only after
// the order is confirmed; any failure leaves it intact.
func (s *CheckoutService) placeOrder(sess *session.Session, method models.PaymentMethod, email string) (*CheckoutResult, error) {
	var (
		lines  []models.CartLine
		userID string
	)
	sess.Do(func(ss *session.Session) {
		lines = ss.Cart.Lines()
		if ss.User != nil {
			userID = ss.User.ID
			if email == "" {
				email = ss.User.Email
			}
		}
	})
	if len(lines) == 0 {
		s.setState(sess.ID, StateFailed)
		return nil, ErrEmptyCart
	}

	// Rounding happens here, at submission time only.
	pricing := models.PriceCart(lines).Rounded()
	order := &models.Order{
		UserID:        userID,
		Email:         email,
		Items:         models.OrderItemsFromCart(lines),
		OrderValue:    pricing.Total.InexactFloat64(),
		PaymentMethod: string(method),
	}

	if err := s.orders.Create(order); err != nil {
		s.setState(sess.ID, StateFailed)
		return nil, fmt.Errorf("could not place order: %w", err)
	}

	if s.events != nil {
		event := map[string]interface{}{
			"orderID": order.ID,
			"email":   order.Email,
			"status":  order.Status,
			"total":   order.OrderValue,
			"method":  string(method),
		}
		if err := s.events.PublishOrderPlaced(event); err != nil {
			log.Printf("Warning: failed to publish order-placed event for order %s: %v", order.ID, err)
		}
	}

	sess.Do(func(ss *session.Session) {
		ss.Cart.Clear()
	})
	s.setState(sess.ID, StateSucceeded)

	return &CheckoutResult{
		OrderID:  order.ID,
		Pricing:  pricing,
		Redirect: "/order",
	}, nil
}
