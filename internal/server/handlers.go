package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/honeyguard/honeyguard/internal/data"
	"github.com/honeyguard/honeyguard/internal/logging"
	"github.com/honeyguard/honeyguard/internal/metrics"
	"github.com/honeyguard/honeyguard/internal/risk"
	"github.com/honeyguard/honeyguard/internal/traces"
	"github.com/honeyguard/honeyguard/internal/validation"
)

// sessionHeader carries the session token on scoped routes
const sessionHeader = "X-Session-ID"

// Keys set on the gin context by requireSession
const (
	ctxSessionID  = "session_id"
	ctxCustomerID = "customer_id"
)

// -----------------------------------------------------------------------------
// Authentication
// -----------------------------------------------------------------------------

// Authenticator decides whether a login attempt is allowed to create a
// session. The layer's job is scoring and routing, not credential checking,
// so the reference implementation accepts everything; a deployment can plug
// in a real identity backend.
type Authenticator interface {
	Authenticate(ctx context.Context, customerID int64, email, password string) error
}

// AcceptAllAuthenticator admits every login attempt. Hostile clients get a
// session too; they just see decoy data.
type AcceptAllAuthenticator struct{}

func (AcceptAllAuthenticator) Authenticate(ctx context.Context, customerID int64, email, password string) error {
	return nil
}

// -----------------------------------------------------------------------------
// Login
// -----------------------------------------------------------------------------

type loginRequest struct {
	CustomerID int64  `json:"customer_id" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name"`
	UserAgent  string `json:"user_agent"`
}

// loginHandler creates a session and scores the caller's identity once.
// The identity score is frozen into the session; behavioral risk is
// recomputed per data request.
func (s *Server) loginHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "customer_id, email and password are required",
		})
		return
	}

	req.Email = validation.SanitizeString(req.Email, validation.MaxEmailLength)
	req.Name = validation.SanitizeString(req.Name, 200)

	if verrs := validation.Validate(
		validation.PositiveID("customer_id", req.CustomerID),
		validation.ValidEmail("email", req.Email),
	); len(verrs) > 0 {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": verrs.Error(),
		})
		return
	}

	ctx, span := traces.StartSpan(ctx, "login", traces.CustomerID(req.CustomerID))
	defer span.End()

	// Unknown customer is the only caller-visible login failure
	customer, err := s.dataStore.CustomerByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_customer").Inc()
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "unknown_customer",
				"message": "No customer with that ID",
			})
			return
		}
		logging.L(ctx).Error("customer lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Login failed",
		})
		return
	}

	if err := s.authenticator.Authenticate(ctx, req.CustomerID, req.Email, req.Password); err != nil {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "login_denied",
			"message": "Login rejected",
		})
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.GetHeader("User-Agent")
	}

	identityRisk := s.engine.ScoreLogin(risk.LoginSignals{
		Email:          req.Email,
		Name:           req.Name,
		UserAgent:      userAgent,
		AccountAgeDays: accountAgeDays(customer.AccountCreated),
	})

	sessionID, err := s.sessions.Create(req.Email, req.CustomerID)
	if err != nil {
		logging.L(ctx).Error("session creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Login failed",
		})
		return
	}
	if err := s.sessions.SetIdentityRisk(sessionID, identityRisk); err != nil {
		logging.L(ctx).Error("failed to store identity risk", "error", err, "session_id", sessionID)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	logging.L(ctx).Info("login scored",
		"session_id", sessionID,
		"customer_id", req.CustomerID,
		"identity_risk", identityRisk,
	)

	s.realtimeHub.BroadcastLogin(map[string]interface{}{
		"sessionId":    sessionID,
		"customerId":   req.CustomerID,
		"identityRisk": float64(identityRisk),
	})

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"customer":   gin.H{"id": customer.ID, "name": customer.Name},
	})
}

// accountAgeDays parses the stored YYYY-MM-DD creation date.
// Returns -1 (unknown) when the date doesn't parse; unknown age is not
// penalized by the identity scorer.
func accountAgeDays(accountCreated string) int {
	created, err := time.Parse("2006-01-02", accountCreated)
	if err != nil {
		return -1
	}
	return int(time.Since(created).Hours() / 24)
}

// -----------------------------------------------------------------------------
// Session middleware
// -----------------------------------------------------------------------------

// requireSession resolves the X-Session-ID header. A missing or unknown
// session is rejected outright; the neutral-risk fallback only covers
// sessions that vanish between validation and evaluation.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_session",
				"message": "X-Session-ID header is required",
			})
			return
		}

		snap, ok := s.sessions.Get(sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_session",
				"message": "Session is unknown or has been evicted",
			})
			return
		}

		ctx := logging.WithSessionID(c.Request.Context(), sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(ctxSessionID, sessionID)
		c.Set(ctxCustomerID, snap.CustomerID)
		c.Next()
	}
}

// -----------------------------------------------------------------------------
// Data handlers
// -----------------------------------------------------------------------------

func (s *Server) accountHandler(c *gin.Context) {
	sessionID := c.GetString(ctxSessionID)
	customerID := c.GetInt64(ctxCustomerID)

	assessment, source := s.evaluateAndRoute(c, sessionID, "/account")

	customer, err := source.Account(c.Request.Context(), customerID)
	if err != nil {
		s.dataError(c, err)
		return
	}

	resp := gin.H{"account": customer}
	s.attachRiskMeta(resp, assessment)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) transactionsHandler(c *gin.Context) {
	sessionID := c.GetString(ctxSessionID)
	customerID := c.GetInt64(ctxCustomerID)

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be an integer between 1 and 100",
			})
			return
		}
		limit = parsed
	}

	assessment, source := s.evaluateAndRoute(c, sessionID, "/transactions")

	txns, err := source.Transactions(c.Request.Context(), customerID, limit)
	if err != nil {
		s.dataError(c, err)
		return
	}

	resp := gin.H{"transactions": txns, "count": len(txns)}
	s.attachRiskMeta(resp, assessment)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) balanceHandler(c *gin.Context) {
	sessionID := c.GetString(ctxSessionID)
	customerID := c.GetInt64(ctxCustomerID)

	assessment, source := s.evaluateAndRoute(c, sessionID, "/balance")

	customer, err := source.Account(c.Request.Context(), customerID)
	if err != nil {
		s.dataError(c, err)
		return
	}

	resp := gin.H{
		"customer_id": customer.ID,
		"balance":     customer.AccountBalance,
		"currency":    "USD",
	}
	s.attachRiskMeta(resp, assessment)
	c.JSON(http.StatusOK, resp)
}

// evaluateAndRoute records the access, scores the session and picks the
// tier's data source. Every data request goes through here, so a session
// that turns hostile mid-stream flips tiers on its next request.
func (s *Server) evaluateAndRoute(c *gin.Context, sessionID, endpoint string) (*risk.Assessment, data.Source) {
	ctx, span := traces.StartSpan(c.Request.Context(),
		"evaluate", traces.SessionID(sessionID), traces.Endpoint(endpoint))
	defer span.End()

	s.sessions.RecordAccess(sessionID, endpoint)
	assessment := s.engine.Evaluate(ctx, sessionID, endpoint)

	span.SetAttributes(
		traces.Tier(string(assessment.Tier)),
		traces.RiskScore(assessment.FinalRisk),
	)

	if assessment.Fallback {
		s.realtimeHub.BroadcastFallbackAlert(map[string]interface{}{
			"sessionId": sessionID,
			"endpoint":  endpoint,
		})
	}
	s.realtimeHub.BroadcastDecision(map[string]interface{}{
		"sessionId":      sessionID,
		"endpoint":       endpoint,
		"tier":           string(assessment.Tier),
		"riskScore":      float64(assessment.FinalRisk),
		"identityRisk":   float64(assessment.IdentityRisk),
		"behavioralRisk": float64(assessment.BehavioralRisk),
	})

	return assessment, s.sources[assessment.Tier]
}

// attachRiskMeta echoes scoring diagnostics on the response. Suppressed in
// production: the meta fields reveal the deception mechanism to the very
// clients it exists to mislead. Operators get the same numbers from logs,
// metrics and the websocket feed.
func (s *Server) attachRiskMeta(resp gin.H, a *risk.Assessment) {
	if s.cfg.IsProduction() && !s.cfg.ExposeRiskMeta {
		return
	}
	resp["_risk_score"] = a.FinalRisk
	resp["_data_source"] = string(a.Tier)
	resp["_identity_risk"] = a.IdentityRisk
	resp["_behavioral_risk"] = a.BehavioralRisk
}

func (s *Server) dataError(c *gin.Context, err error) {
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "unknown_customer",
			"message": "No customer with that ID",
		})
		return
	}
	logging.L(c.Request.Context()).Error("data provider error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Failed to load data",
	})
}
