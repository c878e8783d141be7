package shopserver

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/flower-shop-api/internal/platform/auth"
	apierrors "github.com/Apurer/flower-shop-api/internal/shared/errors"
)

const principalKey = "shop.principal"

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseAccess(raw string) (*auth.Principal, error)
}

// RouteAuthorizer decides whether a role may call a route.
type RouteAuthorizer interface {
	Allowed(role, path, method string) (bool, error)
}

// Guard authenticates bearer tokens and enforces the route policies.
type Guard struct {
	tokens TokenParser
	authz  RouteAuthorizer
}

// NewGuard wires the token parser and the policy enforcer.
func NewGuard(tokens TokenParser, authz RouteAuthorizer) *Guard {
	return &Guard{tokens: tokens, authz: authz}
}

// Identify attaches the caller when a valid token is sent and never rejects the request.
func (g *Guard) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g != nil && g.tokens != nil {
			if raw, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
				if principal, err := g.tokens.ParseAccess(raw); err == nil {
					c.Set(principalKey, principal)
				}
			}
		}
		c.Next()
	}
}

// Authorize rejects requests without a valid token (401) or whose role lacks a policy (403).
func (g *Guard) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g == nil || g.tokens == nil || g.authz == nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication is not configured"))
			return
		}
		raw, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			return
		}
		principal, err := g.tokens.ParseAccess(raw)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			return
		}
		allowed, err := g.authz.Allowed(principal.Role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			apierrors.RespondError(c, fmt.Errorf("evaluate route policy: %w", err))
			return
		}
		if !allowed {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("role "+principal.Role+" may not access this resource"))
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// principalFrom returns the authenticated caller, if any.
func principalFrom(c *gin.Context) (*auth.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok && principal != nil
}

// requirePrincipal answers 401 when the route ran without a caller.
func requirePrincipal(c *gin.Context) (*auth.Principal, bool) {
	principal, ok := principalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
		return nil, false
	}
	return principal, true
}

// isStaff reports whether the caller may act on other users' resources.
func isStaff(principal *auth.Principal) bool {
	if principal == nil {
		return false
	}
	return principal.Role == auth.RoleStaff || principal.Role == auth.RoleAdmin
}
