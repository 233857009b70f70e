package services

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"signup-api/pkg/logging"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Payment methods accepted by the funnel
const (
	PaymentMethodCard      = "card"
	PaymentMethodApplePay  = "apple_pay"
	PaymentMethodGooglePay = "google_pay"
	PaymentMethodPayPal    = "paypal"
)

// User-facing messages for the scripted failure cards
const (
	DeclineMessage = "Your card was declined. Please try a different payment method."
	TimeoutMessage = "Payment processing timed out. Please try again."
)

// ChargeRequest describes a charge attempt
type ChargeRequest struct {
	AmountPence   int64
	Currency      string
	PaymentMethod string
	CardNumber    string
	Expiry        string
	CVC           string
}

// ChargeResult is the terminal outcome of a charge attempt: exactly one of
// Approved, Declined or TimedOut. There are no partial or pending states.
type ChargeResult interface {
	isChargeResult()
}

// Approved means the charge went through
type Approved struct {
	TransactionID string
	CardBrand     string
}

// Declined means the gateway rejected the charge
type Declined struct {
	Reason string
}

// TimedOut means the gateway reported a processing timeout. This is a
// scripted outcome for the "1111" test card, not a real timeout.
type TimedOut struct {
	Reason string
}

func (Approved) isChargeResult() {}
func (Declined) isChargeResult() {}
func (TimedOut) isChargeResult() {}

// PaymentGateway simulates a payment provider. Card numbers ending "0000"
// decline, "1111" time out, everything else is approved. Express methods
// (apple_pay, google_pay, paypal) always succeed.
type PaymentGateway struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewPaymentGateway creates a gateway with realistic processing latency
func NewPaymentGateway() *PaymentGateway {
	return &PaymentGateway{
		minDelay: 1500 * time.Millisecond,
		maxDelay: 3 * time.Second,
	}
}

// NewPaymentGatewayWithDelay creates a gateway with custom latency bounds
func NewPaymentGatewayWithDelay(min, max time.Duration) *PaymentGateway {
	return &PaymentGateway{minDelay: min, maxDelay: max}
}

// Charge processes a charge request and returns a terminal outcome. The
// simulated round-trip delay is aborted if the caller's context is cancelled.
func (g *PaymentGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	lastFour := ""
	if len(req.CardNumber) >= 4 {
		lastFour = req.CardNumber[len(req.CardNumber)-4:]
	}
	logging.Infof("PaymentGateway charge: amount=%d currency=%s method=%s card_last_four=%s",
		req.AmountPence, req.Currency, req.PaymentMethod, lastFour)

	if err := g.simulateLatency(ctx); err != nil {
		return nil, err
	}

	// Express checkout methods always succeed
	if IsExpressMethod(req.PaymentMethod) {
		txn, err := newTransactionID()
		if err != nil {
			return nil, err
		}
		return Approved{TransactionID: txn, CardBrand: req.PaymentMethod}, nil
	}

	if lastFour == "0000" {
		return Declined{Reason: DeclineMessage}, nil
	}

	if lastFour == "1111" {
		return TimedOut{Reason: TimeoutMessage}, nil
	}

	txn, err := newTransactionID()
	if err != nil {
		return nil, err
	}
	return Approved{TransactionID: txn, CardBrand: DetectCardBrand(req.CardNumber)}, nil
}

// simulateLatency suspends the caller for 1.5-3s (or the configured bounds)
func (g *PaymentGateway) simulateLatency(ctx context.Context) error {
	delay := g.minDelay
	if g.maxDelay > g.minDelay {
		delay += time.Duration(rand.Int63n(int64(g.maxDelay - g.minDelay)))
	}
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsExpressMethod reports whether the method bypasses card-detail entry
func IsExpressMethod(method string) bool {
	switch method {
	case PaymentMethodApplePay, PaymentMethodGooglePay, PaymentMethodPayPal:
		return true
	}
	return false
}

// DetectCardBrand infers the card brand from the leading digit
func DetectCardBrand(cardNumber string) string {
	switch {
	case strings.HasPrefix(cardNumber, "4"):
		return "visa"
	case strings.HasPrefix(cardNumber, "5"), strings.HasPrefix(cardNumber, "2"):
		return "mastercard"
	case strings.HasPrefix(cardNumber, "3"):
		return "amex"
	}
	return "unknown"
}

func newTransactionID() (string, error) {
	suffix, err := gonanoid.Generate("0123456789abcdef", 16)
	if err != nil {
		return "", err
	}
	return "txn_" + suffix, nil
}
