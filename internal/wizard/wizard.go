// Package wizard holds the signup funnel state machine. State is an explicit
// value passed into and returned from each transition, standing in for the
// browser-held store: no hidden globals, every operation yields the new state.
package wizard

import (
	"strings"

	"signup-api/internal/models"
)

// Step is a wizard position: plan -> account -> payment -> confirmation
type Step int

const (
	StepPlan         Step = 1
	StepAccount      Step = 2
	StepPayment      Step = 3
	StepConfirmation Step = 4
)

// AccountForm holds the account-creation fields
type AccountForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PaymentForm holds the payment-step fields. CVC never survives a snapshot.
type PaymentForm struct {
	Method     string `json:"payment_method"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
	Country    string `json:"country"`
	ZipCode    string `json:"zip_code"`
}

// Coupon is the promotional coupon applied to the funnel
type Coupon struct {
	Code          string `json:"code"`
	DiscountLabel string `json:"discountLabel"`
	IsApplied     bool   `json:"isApplied"`
}

// Settings is the funnel configuration the wizard prices against
type Settings struct {
	SupportEmail   string `json:"supportEmail"`
	SupportURL     string `json:"supportUrl"`
	VATRate        int    `json:"vatRate"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
	MaxDevices     int    `json:"maxDevices"`
}

// OrderResult is the completed order shown on the confirmation step
type OrderResult struct {
	ID            string  `json:"id"`
	Total         int64   `json:"total"`
	Currency      string  `json:"currency"`
	PaidAt        string  `json:"paid_at"`
	PlanName      string  `json:"plan_name"`
	PaymentMethod string  `json:"payment_method"`
	CardLastFour  *string `json:"card_last_four"`
	CardBrand     *string `json:"card_brand"`
}

// State is the full wizard state. Transition methods have value receivers and
// return the updated state.
type State struct {
	CurrentStep     Step
	Plans           []models.Plan
	SelectedPlanID  uint
	Settings        Settings
	Account         AccountForm
	Payment         PaymentForm
	AffiliateParams map[string]string
	Coupon          Coupon
	UserID          uint
	Order           *OrderResult
	CompletedSteps  map[Step]bool
}

// InitializeData is what the server shell hands the wizard on page load
type InitializeData struct {
	Plans           []models.Plan
	InitialStep     Step
	Settings        *Settings
	AffiliateParams map[string]string
	Coupon          *Coupon
	Snapshot        *Snapshot
}

// New creates a fresh wizard state at step 1 with card payment defaults
func New() State {
	return State{
		CurrentStep: StepPlan,
		Payment: PaymentForm{
			Method:  "card",
			Country: "GB",
		},
		AffiliateParams: map[string]string{},
		CompletedSteps:  map[Step]bool{},
	}
}

// Initialize applies the server-rendered shell data and any persisted
// snapshot. The snapshot wins over the initial step from the URL; the first
// plan is auto-selected when nothing is selected after restore.
func (s State) Initialize(data InitializeData) State {
	if len(data.Plans) > 0 {
		s.Plans = data.Plans
	}
	if data.Settings != nil {
		s.Settings = *data.Settings
	}
	if len(data.AffiliateParams) > 0 {
		merged := make(map[string]string, len(s.AffiliateParams)+len(data.AffiliateParams))
		for k, v := range s.AffiliateParams {
			merged[k] = v
		}
		for k, v := range data.AffiliateParams {
			merged[k] = v
		}
		s.AffiliateParams = merged
	}
	if data.Coupon != nil {
		s.Coupon = *data.Coupon
	}

	if data.Snapshot != nil {
		s = s.Restore(*data.Snapshot)
	}

	if s.SelectedPlanID == 0 && len(s.Plans) > 0 {
		s.SelectedPlanID = s.Plans[0].ID
	}

	// Only honor the URL step when no persisted state moved us already
	if data.InitialStep != 0 && s.CurrentStep == StepPlan && data.InitialStep != StepPlan {
		s.CurrentStep = data.InitialStep
	}

	return s
}

// Next advances one step; no-op at the confirmation ceiling
func (s State) Next() State {
	if s.CurrentStep < StepConfirmation {
		s.CurrentStep++
	}
	return s
}

// Prev retreats one step; no-op at the plan floor
func (s State) Prev() State {
	if s.CurrentStep > StepPlan {
		s.CurrentStep--
	}
	return s
}

// GoTo jumps directly to a step; out-of-range steps are ignored
func (s State) GoTo(step Step) State {
	if step >= StepPlan && step <= StepConfirmation {
		s.CurrentStep = step
	}
	return s
}

// SelectPlan records the chosen plan
func (s State) SelectPlan(planID uint) State {
	s.SelectedPlanID = planID
	return s
}

// CompleteStep marks a step as done
func (s State) CompleteStep(step Step) State {
	completed := make(map[Step]bool, len(s.CompletedSteps)+1)
	for k, v := range s.CompletedSteps {
		completed[k] = v
	}
	completed[step] = true
	s.CompletedSteps = completed
	return s
}

// SetUser records the created account id
func (s State) SetUser(userID uint) State {
	s.UserID = userID
	return s
}

// SetOrder records the completed order
func (s State) SetOrder(order OrderResult) State {
	s.Order = &order
	return s
}

// Reset returns the wizard to its initial state, keeping plans and settings
func (s State) Reset() State {
	fresh := New()
	fresh.Plans = s.Plans
	fresh.Settings = s.Settings
	return fresh
}

// CanProceed reports whether the gate for a step is satisfied
func (s State) CanProceed(step Step) bool {
	switch step {
	case StepPlan:
		return s.SelectedPlanID != 0
	case StepAccount:
		return strings.TrimSpace(s.Account.Email) != "" && strings.TrimSpace(s.Account.Password) != ""
	case StepPayment:
		if s.Payment.Method != "card" {
			return true
		}
		return strings.TrimSpace(s.Payment.CardNumber) != "" &&
			strings.TrimSpace(s.Payment.Expiry) != "" &&
			strings.TrimSpace(s.Payment.CVC) != "" &&
			strings.TrimSpace(s.Payment.Country) != "" &&
			strings.TrimSpace(s.Payment.ZipCode) != ""
	case StepConfirmation:
		return s.Order != nil
	}
	return false
}

// SelectedPlan returns the selected plan, or nil when none is selected
func (s State) SelectedPlan() *models.Plan {
	if s.SelectedPlanID == 0 {
		return nil
	}
	for i := range s.Plans {
		if s.Plans[i].ID == s.SelectedPlanID {
			return &s.Plans[i]
		}
	}
	return nil
}

// Totals derives the checkout pricing for the selected plan. A missing
// selection prices at zero.
func (s State) Totals() Totals {
	plan := s.SelectedPlan()
	if plan == nil {
		return Totals{}
	}
	return ComputeTotals(plan.DiscountedPricePence, plan.DurationMonths, s.Settings.VATRate)
}
