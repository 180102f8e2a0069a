package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyPrincipal is the Gin context key holding the request principal.
const ContextKeyPrincipal = "auth_principal"

// Middleware gates every request through the authorization policy.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	policy         *Policy
}

// NewMiddleware creates the policy-enforcement middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, policy *Policy) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		policy:         policy,
	}
}

// Handler returns a Gin middleware that resolves the request principal and
// evaluates the policy. The decision is made fresh on every request.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := m.resolvePrincipal(c)
		c.Set(ContextKeyPrincipal, principal)

		switch m.policy.Evaluate(c.Request.URL.Path, principal) {
		case DecisionAllow:
			c.Next()

		case DecisionUnauthenticated:
			if m.isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "authentication required",
				})
				return
			}
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()

		case DecisionForbidden:
			if m.isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "insufficient permissions",
				})
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
		}
	}
}

// resolvePrincipal builds the principal for the current request. Requests
// without a session, with a stale session, or hitting a store error resolve
// to the anonymous principal; the policy then decides, so a store outage
// denies rather than allows.
func (m *Middleware) resolvePrincipal(c *gin.Context) Principal {
	if m.sessionManager == nil {
		return Anonymous()
	}

	accountID := m.sessionManager.GetAccountID(c.Request)
	if accountID == 0 {
		return Anonymous()
	}

	account, err := m.service.GetAccountByID(accountID)
	if err != nil {
		return Anonymous()
	}

	return NewPrincipal(account)
}

// isAPIRequest determines if this is an API request vs web browser request.
func (m *Middleware) isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// GetPrincipal retrieves the request principal from the Gin context.
// Returns the anonymous principal if the middleware has not run.
func GetPrincipal(c *gin.Context) Principal {
	if v, exists := c.Get(ContextKeyPrincipal); exists {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Anonymous()
}

// IsAuthenticated returns true if the request carries an authenticated
// principal.
func IsAuthenticated(c *gin.Context) bool {
	return GetPrincipal(c).Authenticated
}
