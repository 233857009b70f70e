package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"signup-api/internal/config"
	"signup-api/internal/models"
	"signup-api/pkg/logging"
)

// AffiliateNotifier posts conversion events to the affiliate network once an
// attributed order completes. Delivery happens out of band of the checkout
// request.
type AffiliateNotifier struct {
	postbackURL string
	secret      string
	httpClient  *http.Client
	retryDelays []time.Duration
}

// NewAffiliateNotifier creates a notifier from the configured postback URL.
// Returns nil when no URL is configured.
func NewAffiliateNotifier() *AffiliateNotifier {
	if config.AppConfig.AffiliatePostbackURL == "" {
		return nil
	}
	return &AffiliateNotifier{
		postbackURL: config.AppConfig.AffiliatePostbackURL,
		secret:      config.AppConfig.AffiliatePostbackSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryDelays: []time.Duration{1 * time.Second, 5 * time.Second, 30 * time.Second},
	}
}

// ConversionPayload is the postback body sent to the affiliate network
type ConversionPayload struct {
	Event       string `json:"event"` // "order.completed"
	OrderID     string `json:"order_id"`
	AffID       string `json:"aff_id"`
	SubID       string `json:"sub_id,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	AmountPence int64  `json:"amount_pence"`
	Currency    string `json:"currency"`
	Timestamp   string `json:"timestamp"` // ISO 8601
}

// NotifyConversion sends the conversion postback for a linked attribution.
// Called in a goroutine after checkout; retries on its own schedule.
func (n *AffiliateNotifier) NotifyConversion(tracking *models.AffiliateTracking, order *models.Order) {
	payload := ConversionPayload{
		Event:       "order.completed",
		OrderID:     order.OrderID,
		AffID:       tracking.AffID,
		SubID:       tracking.SubID,
		UTMSource:   tracking.UTMSource,
		UTMCampaign: tracking.UTMCampaign,
		AmountPence: order.TotalPence,
		Currency:    order.Currency,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	n.sendWithRetry(payload)
}

// sendWithRetry delivers the postback, retrying after 1s, 5s and 30s
func (n *AffiliateNotifier) sendWithRetry(payload ConversionPayload) {
	maxAttempts := len(n.retryDelays)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := n.sendPostback(payload)
		if err == nil {
			logging.Infof("Conversion postback sent - order: %s, aff_id: %s, attempt: %d",
				payload.OrderID, payload.AffID, attempt+1)
			return
		}

		logging.Errorf("Conversion postback failed - order: %s, attempt: %d, error: %v",
			payload.OrderID, attempt+1, err)

		if attempt < maxAttempts-1 {
			time.Sleep(n.retryDelays[attempt])
		}
	}

	logging.Errorf("Conversion postback failed after %d attempts - order: %s", maxAttempts, payload.OrderID)
}

// sendPostback sends a single postback request
func (n *AffiliateNotifier) sendPostback(payload ConversionPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", n.postbackURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SignupAPI-Postback/1.0")

	if n.secret != "" {
		req.Header.Set("X-Signup-Signature", n.generateSignature(jsonData))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// generateSignature generates an HMAC-SHA256 signature for the payload
func (n *AffiliateNotifier) generateSignature(payload []byte) string {
	h := hmac.New(sha256.New, []byte(n.secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
