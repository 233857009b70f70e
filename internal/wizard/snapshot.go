package wizard

import (
	"encoding/json"
	"sort"
)

// Snapshot is the persistable subset of wizard state. Card number, expiry and
// CVC are stripped before a snapshot is written and cleared again on restore,
// so an injected payload can never smuggle them back in.
type Snapshot struct {
	CurrentStep     Step              `json:"current_step"`
	SelectedPlanID  uint              `json:"selected_plan_id"`
	Account         AccountForm       `json:"account"`
	Payment         PaymentForm       `json:"payment"`
	AffiliateParams map[string]string `json:"affiliate_params,omitempty"`
	Coupon          Coupon            `json:"coupon"`
	UserID          uint              `json:"user_id"`
	CompletedSteps  []Step            `json:"completed_steps,omitempty"`
}

// Snapshot extracts the persistable state with sensitive fields removed
func (s State) Snapshot() Snapshot {
	completed := make([]Step, 0, len(s.CompletedSteps))
	for step := range s.CompletedSteps {
		completed = append(completed, step)
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i] < completed[j] })

	snap := Snapshot{
		CurrentStep:     s.CurrentStep,
		SelectedPlanID:  s.SelectedPlanID,
		Account:         s.Account,
		Payment:         s.Payment,
		AffiliateParams: s.AffiliateParams,
		Coupon:          s.Coupon,
		UserID:          s.UserID,
		CompletedSteps:  completed,
	}
	return snap.Sanitized()
}

// Sanitized returns a copy with the card fields blanked
func (s Snapshot) Sanitized() Snapshot {
	s.Payment.CardNumber = ""
	s.Payment.Expiry = ""
	s.Payment.CVC = ""
	return s
}

// Restore applies a snapshot onto the state. Whatever the stored payload
// claims, the card fields come back empty.
func (s State) Restore(snap Snapshot) State {
	snap = snap.Sanitized()

	if snap.CurrentStep >= StepPlan && snap.CurrentStep <= StepConfirmation {
		s.CurrentStep = snap.CurrentStep
	}
	if snap.SelectedPlanID != 0 {
		s.SelectedPlanID = snap.SelectedPlanID
	}
	if snap.Account.Email != "" || snap.Account.Password != "" {
		s.Account = snap.Account
	}
	if snap.Payment.Method != "" {
		s.Payment.Method = snap.Payment.Method
	}
	if snap.Payment.Country != "" {
		s.Payment.Country = snap.Payment.Country
	}
	if snap.Payment.ZipCode != "" {
		s.Payment.ZipCode = snap.Payment.ZipCode
	}
	s.Payment.CardNumber = ""
	s.Payment.Expiry = ""
	s.Payment.CVC = ""
	if len(snap.AffiliateParams) > 0 {
		s.AffiliateParams = snap.AffiliateParams
	}
	if snap.Coupon.Code != "" {
		s.Coupon = snap.Coupon
	}
	if snap.UserID != 0 {
		s.UserID = snap.UserID
	}
	if len(snap.CompletedSteps) > 0 {
		completed := make(map[Step]bool, len(snap.CompletedSteps))
		for _, step := range snap.CompletedSteps {
			completed[step] = true
		}
		s.CompletedSteps = completed
	}

	return s
}

// EncodeSnapshot serializes a snapshot for session storage
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap.Sanitized())
}

// DecodeSnapshot parses a stored snapshot, sanitizing it on the way in
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap.Sanitized(), nil
}
