package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/services"
)

func orderFixture(t *testing.T) (*services.OrderService, *repositories.MockOrderRepository, *models.Order) {
	t.Helper()

	repo := repositories.NewMockOrderRepository()
	order := &models.Order{
		UserID:        "u1",
		Email:         "asha@example.com",
		Items:         []models.OrderItem{{ProductID: "p1", ProductName: "Tiramisu", UnitPrice: 320, Quantity: 1}},
		OrderValue:    386,
		PaymentMethod: string(models.PaymentMethodCOD),
	}
	assert.NoError(t, repo.Create(order))
	return services.NewOrderService(repo), repo, order
}

func TestOrdersForCustomer(t *testing.T) {
	svc, repo, _ := orderFixture(t)

	other := &models.Order{Email: "ravi@example.com", OrderValue: 120}
	assert.NoError(t, repo.Create(other))

	orders, err := svc.OrdersForCustomer("asha@example.com")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "asha@example.com", orders[0].Email)

	_, err = svc.OrdersForCustomer("")
	assert.EqualError(t, err, "no customer email for order lookup")
}

func TestUpdateStatus_PendingToCompleted(t *testing.T) {
	svc, repo, order := orderFixture(t)

	assert.NoError(t, svc.UpdateStatus(order.ID, models.OrderStatusCompleted))

	// The re-fetch is authoritative.
	updated, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestUpdateStatus_CompletedOrderIsFinal(t *testing.T) {
	svc, _, order := orderFixture(t)

	assert.NoError(t, svc.UpdateStatus(order.ID, models.OrderStatusCompleted))

	err := svc.UpdateStatus(order.ID, models.OrderStatusCancelled)
	assert.ErrorContains(t, err, "accepts no transition")
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, repo, order := orderFixture(t)

	err := svc.UpdateStatus(order.ID, "shipped")
	assert.EqualError(t, err, "invalid order status: shipped")

	// Rejected before any repository access; the order is untouched.
	unchanged, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, unchanged.Status)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc, _, _ := orderFixture(t)

	err := svc.UpdateStatus("missing", models.OrderStatusCompleted)
	assert.ErrorContains(t, err, "failed to load order missing")
}

func TestAdminPage_FiltersByStatus(t *testing.T) {
	svc, repo, order := orderFixture(t)

	second := &models.Order{Email: "ravi@example.com", OrderValue: 220}
	assert.NoError(t, repo.Create(second))
	assert.NoError(t, svc.UpdateStatus(order.ID, models.OrderStatusCancelled))

	pending, err := svc.AdminPage(1, 10, models.OrderStatusPending)
	assert.NoError(t, err)
	assert.Len(t, pending.Orders, 1)
	assert.Equal(t, second.ID, pending.Orders[0].ID)

	all, err := svc.AdminPage(1, 10, "")
	assert.NoError(t, err)
	assert.Len(t, all.Orders, 2)
}
