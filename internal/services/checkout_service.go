package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signup-api/internal/config"
	"signup-api/internal/database"
	"signup-api/internal/models"
	"signup-api/internal/wizard"
	"signup-api/pkg/logging"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when the user id does not resolve
	ErrUserNotFound = errors.New("user not found")
	// ErrPlanNotFound is returned when the plan id does not resolve
	ErrPlanNotFound = errors.New("plan not found")
)

// PaymentRejectedError carries the user-facing reason for a declined or
// timed-out charge. Nothing is persisted when it is returned.
type PaymentRejectedError struct {
	Reason string
}

func (e *PaymentRejectedError) Error() string {
	return e.Reason
}

// ProcessPaymentRequest describes a payment submission from step 3
type ProcessPaymentRequest struct {
	UserID        uint
	PlanID        uint
	PaymentMethod string
	CardNumber    string
	Expiry        string
	CVC           string
	CouponCode    string
}

// OrderSummary is what the confirmation step renders
type OrderSummary struct {
	ID            string    `json:"id"`
	Total         int64     `json:"total"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paid_at"`
	PlanName      string    `json:"plan_name"`
	PaymentMethod string    `json:"payment_method"`
	CardLastFour  *string   `json:"card_last_four"`
	CardBrand     *string   `json:"card_brand"`
}

// CheckoutService orchestrates payment: it prices the plan, charges the
// gateway, persists the order and links affiliate attribution.
type CheckoutService struct {
	gateway  *PaymentGateway
	mailer   *EmailService
	notifier *AffiliateNotifier
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(gateway *PaymentGateway, mailer *EmailService, notifier *AffiliateNotifier) *CheckoutService {
	return &CheckoutService{
		gateway:  gateway,
		mailer:   mailer,
		notifier: notifier,
	}
}

// ProcessPayment runs the full payment flow for a signed-up user. A declined
// or timed-out charge returns PaymentRejectedError and writes nothing.
func (s *CheckoutService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*OrderSummary, error) {
	user, err := database.GetUserByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	plan, err := database.GetPlanByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	totals := wizard.ComputeTotals(plan.DiscountedPricePence, plan.DurationMonths, config.AppConfig.VATRate)

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		AmountPence:   totals.TotalPence,
		Currency:      config.AppConfig.Currency,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		Expiry:        req.Expiry,
		CVC:           req.CVC,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}

	var approved Approved
	switch outcome := result.(type) {
	case Approved:
		approved = outcome
	case Declined:
		return nil, &PaymentRejectedError{Reason: outcome.Reason}
	case TimedOut:
		return nil, &PaymentRejectedError{Reason: outcome.Reason}
	default:
		return nil, fmt.Errorf("unexpected gateway outcome %T", result)
	}

	orderID, err := newOrderID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	now := time.Now()
	order := &models.Order{
		OrderID:       orderID,
		UserID:        user.ID,
		PlanID:        plan.ID,
		SubtotalPence: totals.SubtotalPence,
		TaxPence:      totals.TaxPence,
		TaxRate:       config.AppConfig.VATRate,
		TotalPence:    totals.TotalPence,
		Currency:      config.AppConfig.Currency,
		CouponCode:    req.CouponCode,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusCompleted,
		PaidAt:        &now,
	}
	if req.PaymentMethod == PaymentMethodCard && req.CardNumber != "" {
		lastFour := cardLastFour(req.CardNumber)
		order.CardLastFour = &lastFour
	}
	if approved.CardBrand != "" {
		brand := approved.CardBrand
		order.CardBrand = &brand
	}

	if err := database.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logging.Infof("Order %s created for user %d (txn %s)", order.OrderID, user.ID, approved.TransactionID)

	tracking := s.linkAttribution(user.ID, order.ID)

	if s.mailer != nil {
		go s.mailer.SendOrderConfirmation(user.Email, user.Name, order, plan.Name)
	}
	if s.notifier != nil && tracking != nil && tracking.AffID != "" {
		go s.notifier.NotifyConversion(tracking, order)
	}

	return &OrderSummary{
		ID:            order.OrderID,
		Total:         order.TotalPence,
		Currency:      order.Currency,
		PaidAt:        now,
		PlanName:      plan.Name,
		PaymentMethod: order.PaymentMethod,
		CardLastFour:  order.CardLastFour,
		CardBrand:     order.CardBrand,
	}, nil
}

// linkAttribution points the user's most recent unlinked tracking row at the
// order. A missing row is fine: not every signup comes via an affiliate.
func (s *CheckoutService) linkAttribution(userID, orderID uint) *models.AffiliateTracking {
	tracking, err := database.GetUnlinkedTrackingByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Errorf("Failed to look up attribution for user %d: %v", userID, err)
		}
		return nil
	}
	if err := database.LinkTrackingToOrder(tracking, orderID); err != nil {
		logging.Errorf("Failed to link attribution %d to order %d: %v", tracking.ID, orderID, err)
		return nil
	}
	return tracking
}

func cardLastFour(cardNumber string) string {
	cleaned := strings.ReplaceAll(cardNumber, " ", "")
	if len(cleaned) < 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}

func newOrderID() (string, error) {
	suffix, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ", 4)
	if err != nil {
		return "", err
	}
	return "INV_" + suffix, nil
}
