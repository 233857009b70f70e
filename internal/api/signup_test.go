package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowSignup(t *testing.T) {
	r, store := setupAPITest(t)
	store.params[testSessionID] = map[string]string{"aff_id": "partner42"}

	w := doJSON(t, r, http.MethodGet, "/signup", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["initialStep"])

	plans := body["plans"].([]interface{})
	require.Len(t, plans, 1)
	plan := plans[0].(map[string]interface{})
	assert.Equal(t, "1 Year Plan", plan["name"])
	assert.EqualValues(t, 699, plan["discounted_price_pence"])
	assert.EqualValues(t, 12, plan["duration_months"])

	params := body["affiliateParams"].(map[string]interface{})
	assert.Equal(t, "partner42", params["aff_id"])

	coupon := body["coupon"].(map[string]interface{})
	assert.Equal(t, "GOLD_DISCOUNT_2026", coupon["code"])
	assert.Equal(t, "67% OFF", coupon["discountLabel"])
	assert.Equal(t, true, coupon["isApplied"])

	cfg := body["config"].(map[string]interface{})
	assert.EqualValues(t, 20, cfg["vatRate"])
	assert.Equal(t, "GBP", cfg["currency"])
	assert.Equal(t, "£", cfg["currencySymbol"])
	assert.EqualValues(t, 5, cfg["maxDevices"])
}

func TestShowSignupStepParam(t *testing.T) {
	r, _ := setupAPITest(t)

	w := doJSON(t, r, http.MethodGet, "/signup/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decodeBody(t, w)["initialStep"])
}

func TestShowSignupUnknownStep(t *testing.T) {
	r, _ := setupAPITest(t)

	for _, path := range []string{"/signup/0", "/signup/5", "/signup/abc"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestSignupCapturesAffiliateParams(t *testing.T) {
	r, store := setupAPITest(t)

	w := doJSON(t, r, http.MethodGet, "/signup?utm_source=newsletter&aff_id=partner42&sub_id=email-3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	captured := store.params[testSessionID]
	require.NotNil(t, captured)
	assert.Equal(t, "newsletter", captured["utm_source"])
	assert.Equal(t, "partner42", captured["aff_id"])
	assert.Equal(t, "email-3", captured["sub_id"])
	assert.Contains(t, captured["landing_url"], "/signup?utm_source=newsletter")

	// The captured params come back in the page shell
	params := decodeBody(t, w)["affiliateParams"].(map[string]interface{})
	assert.Equal(t, "partner42", params["aff_id"])
}

func TestSignupWithoutParamsCapturesNothing(t *testing.T) {
	r, store := setupAPITest(t)

	w := doJSON(t, r, http.MethodGet, "/signup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.params[testSessionID])
}

func TestRootRedirectsToSignup(t *testing.T) {
	r, _ := setupAPITest(t)

	w := doJSON(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signup", w.Header().Get("Location"))
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupAPITest(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "signup-api", body["service"])
}

func TestSessionCookieMinted(t *testing.T) {
	r, _ := setupAPITest(t)

	// No cookie on the request: the middleware mints one
	w := doJSONNoCookie(t, r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "signup_session" {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "expected a signup_session cookie to be set")
}
