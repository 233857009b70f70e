package models

// Plan represents a subscription plan in the catalog.
// Catalog entries are immutable during checkout; only active plans are offered.
type Plan struct {
	BaseModel
	Name                 string `json:"name" gorm:"not null"`
	Slug                 string `json:"slug" gorm:"uniqueIndex;not null"`
	DurationMonths       int    `json:"duration_months" gorm:"not null"`
	OriginalPricePence   int64  `json:"original_price_pence" gorm:"not null"`
	DiscountedPricePence int64  `json:"discounted_price_pence" gorm:"not null"`
	DiscountPercentage   int    `json:"discount_percentage"`
	Currency             string `json:"currency" gorm:"size:3;default:'GBP'"`
	IsActive             bool   `json:"is_active" gorm:"default:true;index"`
}
