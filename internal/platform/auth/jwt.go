// Package auth issues and verifies JWTs and decides route access by role.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultIssuer    = "flower-shop-api"
	DefaultAccessTTL = 24 * time.Hour
	DefaultResetTTL  = 15 * time.Minute
	DefaultClockSkew = 30 * time.Second

	purposeAccess = "access"
	purposeReset  = "reset"
)

var (
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("jwt secret is required")
)

// Claims is the payload of every token the shop issues.
type Claims struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller extracted from an access token.
type Principal struct {
	UserID string
	Role   string
}

// TokenConfig configures the HS256 issuer.
type TokenConfig struct {
	Secret    string
	Issuer    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
	ClockSkew time.Duration
}

// Tokens signs and parses access and password reset tokens.
type Tokens struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	resetTTL  time.Duration
	clockSkew time.Duration
	now       func() time.Time
}

func NewTokens(cfg TokenConfig) (*Tokens, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingSecret
	}
	t := &Tokens{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		accessTTL: cfg.AccessTTL,
		resetTTL:  cfg.ResetTTL,
		clockSkew: cfg.ClockSkew,
		now:       time.Now,
	}
	if t.issuer == "" {
		t.issuer = DefaultIssuer
	}
	if t.accessTTL <= 0 {
		t.accessTTL = DefaultAccessTTL
	}
	if t.resetTTL <= 0 {
		t.resetTTL = DefaultResetTTL
	}
	if t.clockSkew <= 0 {
		t.clockSkew = DefaultClockSkew
	}
	return t, nil
}

// WithClock overrides the time source for deterministic testing.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	if now != nil {
		t.now = now
	}
	return t
}

// IssueAccess signs an access token for the user.
func (t *Tokens) IssueAccess(userID, role string) (string, time.Time, error) {
	return t.sign(Claims{Role: role, Purpose: purposeAccess}, userID, "", t.accessTTL)
}

// IssueReset signs a single-use password reset token identified by tokenID.
func (t *Tokens) IssueReset(userID, tokenID string) (string, time.Time, error) {
	return t.sign(Claims{Purpose: purposeReset}, userID, tokenID, t.resetTTL)
}

// ParseAccess verifies an access token.
func (t *Tokens) ParseAccess(raw string) (*Principal, error) {
	claims, err := t.parse(raw, purposeAccess)
	if err != nil {
		return nil, err
	}
	return &Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

// ParseReset verifies a reset token and returns the user and token ids.
func (t *Tokens) ParseReset(raw string) (string, string, error) {
	claims, err := t.parse(raw, purposeReset)
	if err != nil {
		return "", "", err
	}
	if claims.ID == "" {
		return "", "", fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}
	return claims.Subject, claims.ID, nil
}

func (t *Tokens) sign(claims Claims, subject, id string, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}
	now := t.now()
	expires := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   subject,
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (t *Tokens) parse(raw, purpose string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(t.clockSkew),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: wrong token purpose", ErrInvalidToken)
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
