package models

// AffiliateTracking stores first-touch campaign attribution captured during a
// signup session. The row is created when the account is created and linked to
// an order once payment succeeds; OrderID stays nil until then.
type AffiliateTracking struct {
	BaseModel
	OrderID     *uint  `json:"order_id" gorm:"index"`
	UserID      *uint  `json:"user_id" gorm:"index"`
	SessionID   string `json:"session_id" gorm:"not null;index"`
	UTMSource   string `json:"utm_source" gorm:"column:utm_source"`
	UTMCampaign string `json:"utm_campaign" gorm:"column:utm_campaign"`
	AffID       string `json:"aff_id" gorm:"column:aff_id"`
	SubID       string `json:"sub_id" gorm:"column:sub_id"`
	LandingURL  string `json:"landing_url"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent" gorm:"type:text"`
}

// TableName matches the plural table the original schema used
func (AffiliateTracking) TableName() string {
	return "affiliate_trackings"
}
