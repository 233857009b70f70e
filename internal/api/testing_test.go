package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"signup-api/internal/config"
	"signup-api/internal/database"
	"signup-api/internal/middleware"
	"signup-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const testSessionID = "test-session"

// fakeSessionStore is an in-memory SessionStore for handler tests
type fakeSessionStore struct {
	params    map[string]map[string]string
	snapshots map[string][]byte
	events    map[string][]services.AnalyticsEvent
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		params:    map[string]map[string]string{},
		snapshots: map[string][]byte{},
		events:    map[string][]services.AnalyticsEvent{},
	}
}

func (f *fakeSessionStore) AffiliateParams(_ context.Context, sessionID string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range f.params[sessionID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSessionStore) MergeAffiliateParams(_ context.Context, sessionID string, params map[string]string) error {
	if f.params[sessionID] == nil {
		f.params[sessionID] = map[string]string{}
	}
	for k, v := range params {
		f.params[sessionID][k] = v
	}
	return nil
}

func (f *fakeSessionStore) SaveSnapshot(_ context.Context, sessionID string, snapshot []byte) error {
	f.snapshots[sessionID] = snapshot
	return nil
}

func (f *fakeSessionStore) Snapshot(_ context.Context, sessionID string) ([]byte, error) {
	return f.snapshots[sessionID], nil
}

func (f *fakeSessionStore) AppendEvent(_ context.Context, sessionID string, event services.AnalyticsEvent) error {
	f.events[sessionID] = append(f.events[sessionID], event)
	return nil
}

func (f *fakeSessionStore) Events(_ context.Context, sessionID string) ([]services.AnalyticsEvent, error) {
	return f.events[sessionID], nil
}

func (f *fakeSessionStore) Clear(_ context.Context, sessionID string) error {
	delete(f.params, sessionID)
	delete(f.snapshots, sessionID)
	delete(f.events, sessionID)
	return nil
}

// setupAPITest builds a router backed by an in-memory database and the fake
// session store, returning both for assertions.
func setupAPITest(t *testing.T) (*gin.Engine, *fakeSessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedPlans(db))

	prevDB := database.DB
	prevConfig := config.AppConfig
	database.DB = db
	config.AppConfig = &config.Config{
		VATRate:            20,
		Currency:           "GBP",
		CurrencySymbol:     "£",
		SupportEmail:       "support@privatebyright.com",
		SupportURL:         "support.privatebyright.com",
		MaxDevices:         5,
		CouponCode:         "GOLD_DISCOUNT_2026",
		CouponLabel:        "67% OFF",
		SessionExpireHours: 24,
	}
	t.Cleanup(func() {
		database.DB = prevDB
		config.AppConfig = prevConfig
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := newFakeSessionStore()
	r := gin.New()
	SetupRoutes(r, store,
		services.NewAccountService(),
		services.NewCheckoutService(services.NewPaymentGatewayWithDelay(0, 0), nil, nil))
	return r, store
}

// doJSON performs a request with the test session cookie and an optional JSON body
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSessionID})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doJSONNoCookie performs a request without the session cookie
func doJSONNoCookie(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody parses a JSON response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
