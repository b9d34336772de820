package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeyguard/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		Env:              "development",
		LogLevel:         "error",
		LogFormat:        "text",
		RateLimitRPM:     600000, // effectively unlimited for tests
		IdentityWeight:   0.6,
		BehavioralWeight: 0.4,
		RealThreshold:    35,
		HoneyThreshold:   70,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		if srv.rateLimiter != nil {
			srv.rateLimiter.Stop()
		}
	})
	return srv
}

func doLogin(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func loginSession(t *testing.T, srv *Server, body string) string {
	t.Helper()
	w := doLogin(t, srv, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func doGet(srv *Server, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh) AppleWebKit/537.36")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t)

	w := doLogin(t, srv, `{"customer_id": 1001, "email": "john.smith@techcorp.com", "password": "hunter2", "user_agent": "Mozilla/5.0 (Macintosh) Safari/605.1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
		Customer  struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.SessionID, "hg_"))
	assert.Equal(t, int64(1001), resp.Customer.ID)
	assert.Equal(t, "John Smith", resp.Customer.Name)
}

func TestLogin_UnknownCustomer(t *testing.T) {
	srv := newTestServer(t)

	w := doLogin(t, srv, `{"customer_id": 9999, "email": "ghost@example.com", "password": "x"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_customer")
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	w := doLogin(t, srv, `{"customer_id": 1001}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestLogin_MalformedEmail(t *testing.T) {
	srv := newTestServer(t)

	w := doLogin(t, srv, `{"customer_id": 1001, "email": "not-an-email", "password": "x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_AnyPasswordAccepted(t *testing.T) {
	srv := newTestServer(t)

	// Credential checking is out of scope: a wrong password still yields a
	// session (a hostile caller simply lands in a worse tier)
	w := doLogin(t, srv, `{"customer_id": 1002, "email": "sarah.chen@medgroup.org", "password": "definitely-wrong"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ---------------------------------------------------------------------------
// Session middleware
// ---------------------------------------------------------------------------

func TestDataRoute_MissingSession(t *testing.T) {
	srv := newTestServer(t)

	w := doGet(srv, "/v1/account", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_session")
}

func TestDataRoute_UnknownSession(t *testing.T) {
	srv := newTestServer(t)

	w := doGet(srv, "/v1/account", "hg_nonexistent")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_session")
}

// ---------------------------------------------------------------------------
// Tier routing
// ---------------------------------------------------------------------------

func TestAccount_CalmSessionGetsRealData(t *testing.T) {
	srv := newTestServer(t)

	sessionID := loginSession(t, srv, `{"customer_id": 1001, "email": "john.smith@techcorp.com", "password": "x", "user_agent": "Mozilla/5.0 (Macintosh) Safari/605.1"}`)

	w := doGet(srv, "/v1/account", sessionID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "real", resp["_data_source"])

	account := resp["account"].(map[string]interface{})
	assert.Equal(t, "John Smith", account["name"])
	assert.Equal(t, 125000.50, account["account_balance"])
}

func TestTransactions_HostileSessionGetsDecoys(t *testing.T) {
	srv := newTestServer(t)

	// Bot fingerprint: disposable domain, digit-heavy local part,
	// suspicious name, automation user agent
	sessionID := loginSession(t, srv, `{"customer_id": 1001, "email": "bob1234567@guerrillamail.com", "password": "x", "name": "test user", "user_agent": "curl/7.64"}`)

	// Hammer the API the way a scraper would
	var last *httptest.ResponseRecorder
	for i := 0; i < 25; i++ {
		last = doGet(srv, "/v1/transactions?limit=10", sessionID)
		require.Equal(t, http.StatusOK, last.Code, last.Body.String())
	}

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &resp))

	assert.Equal(t, "honey", resp["_data_source"])
	assert.GreaterOrEqual(t, resp["_risk_score"].(float64), float64(70))

	// Decoy transactions carry fake IDs, never the seeded history
	txns := resp["transactions"].([]interface{})
	require.NotEmpty(t, txns)
	first := txns[0].(map[string]interface{})
	assert.True(t, strings.HasPrefix(first["transaction_id"].(string), "TXN-FAKE-"))
}

func TestBalance_ResponseShape(t *testing.T) {
	srv := newTestServer(t)

	sessionID := loginSession(t, srv, `{"customer_id": 1004, "email": "priya.patel@finserve.io", "password": "x", "user_agent": "Mozilla/5.0 (Macintosh) Safari/605.1"}`)

	w := doGet(srv, "/v1/balance", sessionID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, float64(1004), resp["customer_id"])
	assert.Equal(t, "USD", resp["currency"])
	assert.NotNil(t, resp["balance"])
	assert.Contains(t, resp, "_risk_score")
	assert.Contains(t, resp, "_identity_risk")
	assert.Contains(t, resp, "_behavioral_risk")
}

func TestTransactions_InvalidLimit(t *testing.T) {
	srv := newTestServer(t)

	sessionID := loginSession(t, srv, `{"customer_id": 1001, "email": "john.smith@techcorp.com", "password": "x", "user_agent": "Mozilla/5.0 (Macintosh) Safari/605.1"}`)

	for _, limit := range []string{"0", "-5", "101", "abc"} {
		w := doGet(srv, "/v1/transactions?limit="+limit, sessionID)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}

func TestRiskMeta_SuppressedInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.Env = "production"
	srv, err := New(cfg)
	require.NoError(t, err)
	defer srv.rateLimiter.Stop()

	sessionID := loginSession(t, srv, `{"customer_id": 1001, "email": "john.smith@techcorp.com", "password": "x", "user_agent": "Mozilla/5.0 (Macintosh) Safari/605.1"}`)

	w := doGet(srv, "/v1/account", sessionID)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotContains(t, resp, "_risk_score")
	assert.NotContains(t, resp, "_data_source")
	assert.NotContains(t, resp, "_identity_risk")
	assert.NotContains(t, resp, "_behavioral_risk")
}
