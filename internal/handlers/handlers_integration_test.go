package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"dessertlab/internal/handlers"
	"dessertlab/internal/middleware"
	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/services"
	"dessertlab/internal/session"
	"dessertlab/pkg/pincode"
)

// setupApp wires the full route surface over in-memory repositories, the
// same shape main builds in memory mode.
func setupApp(t *testing.T) (*fiber.App, *repositories.MockProductRepository, *repositories.MockOrderRepository, *repositories.MockUserRepository) {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	userRepo := repositories.NewMockUserRepository()

	sessions := session.NewStore()
	directory := services.NewAuthService(userRepo, "test-secret")

	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(productRepo)
	checkoutService := services.NewCheckoutService(orderRepo, nil, nil)
	orderService := services.NewOrderService(orderRepo)

	app := fiber.New()
	app.Use(middleware.WithSession(sessions))

	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(checkoutService, pincodeClient(t)).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)
	handlers.NewUserHandler(directory, sessions).RegisterRoutes(apiV1)

	return app, productRepo, orderRepo, userRepo
}

// pincodeClient stands in for the postal lookup API: 411001 resolves,
// everything else is unknown.
func pincodeClient(t *testing.T) *pincode.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pincode/411001" {
			_, _ = w.Write([]byte(`[{"Status":"Success","PostOffice":[{"District":"Pune","State":"Maharashtra"}]}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"Status":"Error","PostOffice":null}]`))
	}))
	t.Cleanup(server.Close)
	return pincode.NewClient(server.URL)
}

func seedCatalog(t *testing.T, repo *repositories.MockProductRepository) {
	t.Helper()
	products := []models.Product{
		{ID: "p1", Name: "Tiramisu", Description: "coffee soaked layers", Price: 320},
		{ID: "p2", Name: "Lemon Tart", Description: "tangy citrus curd", Price: 160},
		{ID: "p3", Name: "Chocolate Truffle Cake", Description: "rich chocolate layers", Price: 550},
	}
	for i := range products {
		assert.NoError(t, repo.Create(&products[i]))
	}
}

func seedAdmin(t *testing.T, repo *repositories.MockUserRepository) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NoError(t, repo.Create(&models.User{
		FirstName: "Meera",
		Email:     "admin@example.com",
		Password:  string(hashed),
		Role:      models.RoleAdmin,
	}))
}

// perform issues a request against the app and decodes the JSON reply. It
// returns the session id echoed by the middleware so callers can thread it
// through a flow.
func perform(t *testing.T, app *fiber.App, method, path, sessionID string, body interface{}) (int, map[string]interface{}, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded, resp.Header.Get(middleware.SessionHeader)
}

func loginAs(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	status, _, sessionID := perform(t, app, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, sessionID)
	return sessionID
}

func registerCustomer(t *testing.T, app *fiber.App) {
	t.Helper()

	status, _, _ := perform(t, app, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"firstname": "Asha",
		"lastname":  "Rao",
		"email":     "asha@example.com",
		"phoneNo":   "9876543210",
		"password":  "hunter22",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestStorefrontFlow(t *testing.T) {
	app, products, orders, _ := setupApp(t)
	seedCatalog(t, products)

	registerCustomer(t, app)
	sessionID := loginAs(t, app, "asha@example.com", "hunter22")

	// Browse the catalog cheapest-first.
	status, page, _ := perform(t, app, http.MethodGet, "/api/v1/products/?sort=price-low&page=1", sessionID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), page["totalMatched"])

	// Two desserts into the cart.
	status, _, _ = perform(t, app, http.MethodPost, "/api/v1/cart/items", sessionID, map[string]string{"productId": "p1"})
	assert.Equal(t, http.StatusCreated, status)
	status, cart, _ := perform(t, app, http.MethodPost, "/api/v1/cart/items", sessionID, map[string]string{"productId": "p2"})
	assert.Equal(t, http.StatusCreated, status)

	// 320 + 160 = 480 subtotal, 50 fee, 24 tax.
	pricing := cart["pricing"].(map[string]interface{})
	assert.Equal(t, "480", pricing["subtotal"])
	assert.Equal(t, "50", pricing["deliveryFee"])
	assert.Equal(t, "554", pricing["total"])

	// Cash on delivery.
	status, placed, _ := perform(t, app, http.MethodPost, "/api/v1/checkout/cod", sessionID, map[string]string{
		"email":   "asha@example.com",
		"phone":   "9876543210",
		"address": "12 Lakeview Road",
		"city":    "Pune",
		"state":   "Maharashtra",
		"zipCode": "411001",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "/order", placed["redirect"])
	orderID := placed["orderId"].(string)
	assert.NotEmpty(t, orderID)

	order, err := orders.GetByID(orderID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, float64(554), order.OrderValue)

	// The cart is empty again.
	status, cart, _ = perform(t, app, http.MethodGet, "/api/v1/cart/", sessionID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, cart["items"])

	// Order history shows the placement.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set(middleware.SessionHeader, sessionID)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	var history []models.Order
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Len(t, history, 1)
	assert.Equal(t, orderID, history[0].ID)
}

func TestCheckout_ValidationErrorsAreFieldKeyed(t *testing.T) {
	app, products, _, _ := setupApp(t)
	seedCatalog(t, products)

	registerCustomer(t, app)
	sessionID := loginAs(t, app, "asha@example.com", "hunter22")

	status, _, _ := perform(t, app, http.MethodPost, "/api/v1/cart/items", sessionID, map[string]string{"productId": "p1"})
	assert.Equal(t, http.StatusCreated, status)

	status, body, _ := perform(t, app, http.MethodPost, "/api/v1/checkout/card", sessionID, map[string]string{
		"cardNumber": "4111",
		"cardHolder": "",
		"expiryDate": "13/28",
		"cvv":        "12",
		"email":      "not-an-email",
		"phone":      "9876543210",
		"address":    "12 Lakeview Road",
		"city":       "Pune",
		"state":      "Maharashtra",
		"zipCode":    "411001",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	fields := body["errors"].(map[string]interface{})
	assert.Equal(t, "Please enter a valid 16-digit card number", fields["CardNumber"])
	assert.Equal(t, "Card holder name is required", fields["CardHolder"])
	assert.Equal(t, "Please use MM/YY format", fields["Expiry"])
	assert.Equal(t, "CVV must be 3-4 digits", fields["CVV"])
	assert.Equal(t, "Please enter a valid email", fields["Email"])
}

func TestCheckout_EmptyCartMessage(t *testing.T) {
	app, _, _, _ := setupApp(t)

	registerCustomer(t, app)
	sessionID := loginAs(t, app, "asha@example.com", "hunter22")

	status, body, _ := perform(t, app, http.MethodPost, "/api/v1/checkout/cod", sessionID, map[string]string{
		"email":   "asha@example.com",
		"phone":   "9876543210",
		"address": "12 Lakeview Road",
		"city":    "Pune",
		"state":   "Maharashtra",
		"zipCode": "411001",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Your cart is empty! Please add items before placing an order.", body["message"])
}

func TestCheckout_PincodeLookup(t *testing.T) {
	app, _, _, _ := setupApp(t)

	registerCustomer(t, app)
	sessionID := loginAs(t, app, "asha@example.com", "hunter22")

	status, loc, _ := perform(t, app, http.MethodGet, "/api/v1/checkout/pincode/411001", sessionID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Pune", loc["district"])
	assert.Equal(t, "Maharashtra", loc["state"])

	// An unknown PIN is a soft failure; the form falls back to manual entry.
	status, body, _ := perform(t, app, http.MethodGet, "/api/v1/checkout/pincode/999999", sessionID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Could not find location for this PIN. You can fill manually.", body["message"])
}

func TestCheckout_RequiresLogin(t *testing.T) {
	app, _, _, _ := setupApp(t)

	status, body, _ := perform(t, app, http.MethodGet, "/api/v1/checkout/state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Please log in first", body["message"])
}

func TestAdminOrders(t *testing.T) {
	app, products, orders, users := setupApp(t)
	seedCatalog(t, products)
	seedAdmin(t, users)

	order := &models.Order{Email: "asha@example.com", OrderValue: 554}
	assert.NoError(t, orders.Create(order))

	adminSession := loginAs(t, app, "admin@example.com", "admin-pass")

	// Complete the order; the reply is a fresh page.
	path := fmt.Sprintf("/api/v1/admin/orders/%s?page=1&limit=10", order.ID)
	status, page, _ := perform(t, app, http.MethodPatch, path, adminSession, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, status)
	listed := page["orders"].([]interface{})
	assert.Len(t, listed, 1)
	assert.Equal(t, models.OrderStatusCompleted, listed[0].(map[string]interface{})["status"])

	// Completed orders accept no further transition.
	status, body, _ := perform(t, app, http.MethodPatch, path, adminSession, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "accepts no transition")
}

func TestAdminOrders_UpdateKeepsStatusFilter(t *testing.T) {
	app, _, orders, users := setupApp(t)
	seedAdmin(t, users)

	// One order stays pending, the other is the one the admin completes
	// from a Pending-filtered view.
	waiting := &models.Order{Email: "ravi@example.com", OrderValue: 220}
	assert.NoError(t, orders.Create(waiting))
	target := &models.Order{Email: "asha@example.com", OrderValue: 554}
	assert.NoError(t, orders.Create(target))

	adminSession := loginAs(t, app, "admin@example.com", "admin-pass")

	// The re-fetched page must honor the view's filter: the completed
	// order drops out, the still-pending one remains.
	path := fmt.Sprintf("/api/v1/admin/orders/%s?page=1&limit=10&status=Pending", target.ID)
	status, page, _ := perform(t, app, http.MethodPatch, path, adminSession, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, status)

	listed := page["orders"].([]interface{})
	assert.Len(t, listed, 1)
	assert.Equal(t, waiting.ID, listed[0].(map[string]interface{})["id"])
}

func TestAdminOrders_ForbiddenForCustomers(t *testing.T) {
	app, _, _, _ := setupApp(t)

	registerCustomer(t, app)
	sessionID := loginAs(t, app, "asha@example.com", "hunter22")

	status, body, _ := perform(t, app, http.MethodGet, "/api/v1/admin/orders/", sessionID, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", body["message"])
}

func TestLogout_ClearsUserAndCart(t *testing.T) {
	app, products, _, _ := setupApp(t)
	seedCatalog(t, products)

	registerCustomer(t, app)
	sessionID := loginAs(t, app, "asha@example.com", "hunter22")

	status, _, _ := perform(t, app, http.MethodPost, "/api/v1/cart/items", sessionID, map[string]string{"productId": "p1"})
	assert.Equal(t, http.StatusCreated, status)

	status, _, _ = perform(t, app, http.MethodPost, "/api/v1/users/logout", sessionID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, cart, _ := perform(t, app, http.MethodGet, "/api/v1/cart/", sessionID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, cart["items"])

	status, _, _ = perform(t, app, http.MethodGet, "/api/v1/orders/", sessionID, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
