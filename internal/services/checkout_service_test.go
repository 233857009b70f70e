package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"signup-api/internal/database"
	"signup-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCheckoutService() *CheckoutService {
	return NewCheckoutService(NewPaymentGatewayWithDelay(0, 0), nil, nil)
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "jane", Email: email, PasswordHash: "x"}
	require.NoError(t, database.CreateUser(user))
	return user
}

func TestProcessPaymentSuccess(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "jane@example.com")

	summary, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        user.ID,
		PlanID:        1,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    "4242 4242 4242 4242",
		Expiry:        "12/28",
		CVC:           "123",
		CouponCode:    "GOLD_DISCOUNT_2026",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(summary.ID, "INV_"))
	assert.Len(t, summary.ID, len("INV_")+4)
	assert.EqualValues(t, 10066, summary.Total)
	assert.Equal(t, "GBP", summary.Currency)
	assert.Equal(t, "1 Year Plan", summary.PlanName)
	require.NotNil(t, summary.CardLastFour)
	assert.Equal(t, "4242", *summary.CardLastFour)
	require.NotNil(t, summary.CardBrand)
	assert.Equal(t, "visa", *summary.CardBrand)

	order, err := database.GetOrderByOrderID(summary.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, order.UserID)
	assert.EqualValues(t, 8388, order.SubtotalPence)
	assert.EqualValues(t, 1678, order.TaxPence)
	assert.Equal(t, 20, order.TaxRate)
	assert.EqualValues(t, 10066, order.TotalPence)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, "GOLD_DISCOUNT_2026", order.CouponCode)
	require.NotNil(t, order.PaidAt)
}

func TestProcessPaymentDeclineWritesNothing(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "jane@example.com")

	_, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        user.ID,
		PlanID:        1,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    "4242424242420000",
		Expiry:        "12/28",
		CVC:           "123",
	})

	var rejected *PaymentRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, DeclineMessage, rejected.Reason)

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestProcessPaymentTimeoutWritesNothing(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "jane@example.com")

	_, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        user.ID,
		PlanID:        1,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    "4242424242421111",
		Expiry:        "12/28",
		CVC:           "123",
	})

	var rejected *PaymentRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, TimeoutMessage, rejected.Reason)

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestProcessPaymentExpressOmitsCardFields(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "jane@example.com")

	summary, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        user.ID,
		PlanID:        1,
		PaymentMethod: PaymentMethodPayPal,
	})
	require.NoError(t, err)

	assert.Nil(t, summary.CardLastFour)
	require.NotNil(t, summary.CardBrand)
	assert.Equal(t, "paypal", *summary.CardBrand)
	assert.Equal(t, PaymentMethodPayPal, summary.PaymentMethod)
}

func TestProcessPaymentLinksNewestUnlinkedTracking(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "jane@example.com")

	older := &models.AffiliateTracking{UserID: &user.ID, SessionID: "sess-old", AffID: "partner1"}
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, database.CreateTracking(older))

	newer := &models.AffiliateTracking{UserID: &user.ID, SessionID: "sess-new", AffID: "partner2"}
	newer.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, database.CreateTracking(newer))

	summary, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        user.ID,
		PlanID:        1,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    "4242424242424242",
		Expiry:        "12/28",
		CVC:           "123",
	})
	require.NoError(t, err)

	order, err := database.GetOrderByOrderID(summary.ID)
	require.NoError(t, err)

	var linked models.AffiliateTracking
	require.NoError(t, database.DB.First(&linked, newer.ID).Error)
	require.NotNil(t, linked.OrderID)
	assert.Equal(t, order.ID, *linked.OrderID)

	var untouched models.AffiliateTracking
	require.NoError(t, database.DB.First(&untouched, older.ID).Error)
	assert.Nil(t, untouched.OrderID)
}

func TestProcessPaymentUnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        999,
		PlanID:        1,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    "4242424242424242",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProcessPaymentUnknownPlan(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "jane@example.com")

	_, err := testCheckoutService().ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:        user.ID,
		PlanID:        999,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    "4242424242424242",
	})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
