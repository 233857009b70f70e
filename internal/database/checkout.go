package database

import (
	"signup-api/internal/models"
)

// GetActivePlans returns the plans offered on the funnel
func GetActivePlans() ([]models.Plan, error) {
	var plans []models.Plan
	err := DB.Where("is_active = ?", true).Order("id").Find(&plans).Error
	return plans, err
}

// GetPlanByID returns a plan by primary key
func GetPlanByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := DB.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetUserByID returns a user by primary key
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns a user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user row
func CreateUser(user *models.User) error {
	return DB.Create(user).Error
}

// CreateOrder creates an order row
func CreateOrder(order *models.Order) error {
	return DB.Create(order).Error
}

// GetOrderByOrderID returns an order by its human-readable id
func GetOrderByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	if err := DB.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateTracking creates an affiliate tracking row
func CreateTracking(tracking *models.AffiliateTracking) error {
	return DB.Create(tracking).Error
}

// GetUnlinkedTrackingByUser returns the user's most recent tracking row that
// has not been linked to an order yet
func GetUnlinkedTrackingByUser(userID uint) (*models.AffiliateTracking, error) {
	var tracking models.AffiliateTracking
	err := DB.Where("user_id = ? AND order_id IS NULL", userID).
		Order("created_at DESC").
		First(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

// HasUnlinkedTrackingForUser reports whether the user already has an
// attribution row awaiting order linkage
func HasUnlinkedTrackingForUser(userID uint) (bool, error) {
	var count int64
	err := DB.Model(&models.AffiliateTracking{}).
		Where("user_id = ? AND order_id IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LinkTrackingToOrder sets the order reference on a tracking row
func LinkTrackingToOrder(tracking *models.AffiliateTracking, orderID uint) error {
	tracking.OrderID = &orderID
	return DB.Save(tracking).Error
}
