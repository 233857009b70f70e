package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"signup-api/internal/config"
	"signup-api/internal/models"
	"signup-api/internal/wizard"
	"signup-api/pkg/logging"
)

// EmailService sends transactional email via the Brevo API
type EmailService struct {
	APIKey     string
	FromEmail  string
	FromName   string
	httpClient *http.Client
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	return &EmailService{
		APIKey:    config.AppConfig.BrevoAPIKey,
		FromEmail: config.AppConfig.BrevoFromEmail,
		FromName:  config.AppConfig.BrevoFromName,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// EmailRequest represents Brevo email request structure
type EmailRequest struct {
	Sender      EmailSender `json:"sender"`
	To          []EmailTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
	TextContent string      `json:"textContent"`
}

type EmailSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendOrderConfirmation sends the order confirmation email. It is a best
// effort side channel: when no API key is configured it does nothing, and
// failures are logged rather than surfaced to the buyer.
func (s *EmailService) SendOrderConfirmation(to, name string, order *models.Order, planName string) {
	if s.APIKey == "" {
		return
	}

	total := wizard.FormatPrice(config.AppConfig.CurrencySymbol, order.TotalPence)
	subject := fmt.Sprintf("Order confirmation %s", order.OrderID)

	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"><title>Order confirmation</title></head>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333;">Thanks for your order</h1>
				<p style="color: #666; font-size: 16px;">Your %s subscription is now active.</p>
				<table style="width: 100%%; margin: 20px 0; color: #333;">
					<tr><td>Order</td><td style="text-align: right;">%s</td></tr>
					<tr><td>Total</td><td style="text-align: right;">%s</td></tr>
				</table>
				<p style="color: #999; font-size: 12px;">Questions? Contact %s</p>
			</div>
		</body>
		</html>
	`, planName, order.OrderID, total, config.AppConfig.SupportEmail)

	textContent := fmt.Sprintf("Thanks for your order\n\nPlan: %s\nOrder: %s\nTotal: %s\n\nQuestions? Contact %s\n",
		planName, order.OrderID, total, config.AppConfig.SupportEmail)

	emailReq := EmailRequest{
		Sender: EmailSender{
			Name:  s.FromName,
			Email: s.FromEmail,
		},
		To: []EmailTo{
			{Email: to, Name: name},
		},
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	}

	if err := s.sendEmail(emailReq); err != nil {
		logging.Errorf("Failed to send confirmation for order %s: %v", order.OrderID, err)
		return
	}
	logging.Infof("Confirmation email sent for order %s", order.OrderID)
}

// sendEmail sends email via Brevo API
func (s *EmailService) sendEmail(req EmailRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}

	return nil
}
