package services

import (
	"errors"
	"fmt"
	"strings"

	"signup-api/internal/database"
	"signup-api/internal/models"
	"signup-api/pkg/logging"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrEmailTaken is returned when the email already belongs to an account
var ErrEmailTaken = errors.New("an account with this email already exists")

// AttributionContext carries the session-scoped affiliate state captured
// before signup, plus the request metadata stamped onto the tracking row.
type AttributionContext struct {
	SessionID string
	Params    map[string]string
	IPAddress string
	UserAgent string
}

// AccountService creates user accounts and records affiliate attribution
type AccountService struct{}

// NewAccountService creates a new account service
func NewAccountService() *AccountService {
	return &AccountService{}
}

// CreateAccount creates a user from the signup form. Email format and
// password length are validated at the HTTP layer; uniqueness is checked
// here. When the session carries affiliate params, a tracking row is written
// for the new user unless an unlinked one already exists.
func (s *AccountService) CreateAccount(email, password string, attribution *AttributionContext) (*models.User, error) {
	if _, err := database.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := database.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if attribution != nil && len(attribution.Params) > 0 {
		if err := s.recordAttribution(user.ID, attribution); err != nil {
			// Attribution is best effort; never fail the signup over it
			logging.Errorf("Failed to record attribution for user %d: %v", user.ID, err)
		}
	}

	return user, nil
}

// recordAttribution writes the affiliate tracking row for a new user. At most
// one unlinked row may exist per user, so an existing one is left alone.
func (s *AccountService) recordAttribution(userID uint, attribution *AttributionContext) error {
	exists, err := database.HasUnlinkedTrackingForUser(userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	tracking := &models.AffiliateTracking{
		UserID:      &userID,
		SessionID:   attribution.SessionID,
		UTMSource:   attribution.Params["utm_source"],
		UTMCampaign: attribution.Params["utm_campaign"],
		AffID:       attribution.Params["aff_id"],
		SubID:       attribution.Params["sub_id"],
		LandingURL:  attribution.Params["landing_url"],
		IPAddress:   attribution.IPAddress,
		UserAgent:   attribution.UserAgent,
	}
	return database.CreateTracking(tracking)
}
