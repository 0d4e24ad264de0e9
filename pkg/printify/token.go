package printify

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the claims of a Printify personal access token. Only the
// ones we inspect are listed.
type tokenClaims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes,omitempty"`
}

// TokenInfo describes an API token without verifying it. The signature can
// only be checked by Printify; this is for diagnostics such as warning about
// an expired token or a missing scope before making calls.
type TokenInfo struct {
	Subject   string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseToken decodes the claims of a personal access token.
func ParseToken(token string) (*TokenInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, configError("missing api token")
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, configError(fmt.Sprintf("api token is not a JWT: %v", err))
	}

	info := &TokenInfo{Subject: claims.Subject, Scopes: claims.Scopes}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired reports whether the token has an expiry at or before now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// HasScope reports whether the token grants scope, e.g. "orders.write".
func (t TokenInfo) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
