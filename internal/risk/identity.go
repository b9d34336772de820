package risk

import "strings"

// LoginSignals carries the identity signals available at login time.
type LoginSignals struct {
	Email          string
	Name           string
	UserAgent      string
	AccountAgeDays int // negative when unknown
}

// IdentityScorer computes a one-time risk score from login signals.
// Implementations must return a value in [0, 100].
type IdentityScorer interface {
	ScoreIdentity(sig LoginSignals) int
}

// Disposable/temporary mail domains that correlate with throwaway accounts.
var disposableDomains = []string{
	"tempmail.com", "guerrillamail.com", "10minutemail.com",
	"throwaway.email", "mailinator.com", "trashmail.com",
	"fakeinbox.com", "yopmail.com",
}

// Tokens in display names that correlate with test or scripted accounts.
var suspiciousNameTokens = []string{
	"test", "admin", "hacker", "bot", "script", "auto", "fake",
}

// User-agent fragments of programmatic HTTP clients.
var automationAgentTokens = []string{
	"python", "curl", "wget", "postman", "httpie", "bot", "scrapy",
	"go-http-client", "okhttp",
}

// Per-signal point values. Additive, each signal capped, total clamped.
const (
	pointsDisposableDomain = 30
	pointsDigitHeavyLocal  = 15
	pointsSuspiciousName   = 15
	pointsAutomationAgent  = 25
	pointsShortAgent       = 20
	pointsYoungAccount     = 10

	maxLocalPartDigits = 5
	minPlausibleAgent  = 10
	youngAccountDays   = 7
)

// RuleBasedIdentityScorer is the reference IdentityScorer: a transparent,
// auditable rule set rather than a trained model.
type RuleBasedIdentityScorer struct{}

// NewIdentityScorer creates the reference rule-based identity scorer.
func NewIdentityScorer() *RuleBasedIdentityScorer {
	return &RuleBasedIdentityScorer{}
}

// ScoreIdentity applies the rule set to the login signals and returns a
// score in [0, 100].
func (s *RuleBasedIdentityScorer) ScoreIdentity(sig LoginSignals) int {
	score := 0

	email := strings.ToLower(sig.Email)
	for _, domain := range disposableDomains {
		if strings.Contains(email, domain) {
			score += pointsDisposableDomain
			break
		}
	}

	// Digit-heavy local parts look machine-generated.
	localPart := email
	if at := strings.Index(email, "@"); at >= 0 {
		localPart = email[:at]
	}
	digits := 0
	for _, r := range localPart {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits > maxLocalPartDigits {
		score += pointsDigitHeavyLocal
	}

	name := strings.ToLower(sig.Name)
	for _, token := range suspiciousNameTokens {
		if strings.Contains(name, token) {
			score += pointsSuspiciousName
			break
		}
	}

	agent := strings.ToLower(sig.UserAgent)
	if containsAny(agent, automationAgentTokens) {
		score += pointsAutomationAgent
	} else if len(agent) < minPlausibleAgent {
		score += pointsShortAgent
	}

	if sig.AccountAgeDays >= 0 && sig.AccountAgeDays < youngAccountDays {
		score += pointsYoungAccount
	}

	return clamp(score)
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
