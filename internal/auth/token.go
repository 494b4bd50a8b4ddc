package auth

import (
	"time"
)

// TokenType discriminates token purpose via the type claim.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenManager issues and validates access/refresh token pairs on top of the
// codec. TTLs are fixed at construction and never mutated.
type TokenManager struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager for the given secret and per-type TTLs.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		codec:      NewCodec(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken signs a short-lived access token for the principal.
func (tm *TokenManager) IssueAccessToken(p *Principal) (string, time.Time, error) {
	return tm.issue(p.Username, TokenTypeAccess, tm.accessTTL)
}

// IssueRefreshToken signs a refresh token for the principal.
func (tm *TokenManager) IssueRefreshToken(p *Principal) (string, time.Time, error) {
	return tm.issue(p.Username, TokenTypeRefresh, tm.refreshTTL)
}

func (tm *TokenManager) issue(subject string, tokenType TokenType, ttl time.Duration) (string, time.Time, error) {
	now := tm.now()
	claims := newClaims(subject, string(tokenType), now, ttl)
	signed, err := tm.codec.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Classify reports whether the token is an access or refresh token.
func (tm *TokenManager) Classify(tokenStr string) (TokenType, error) {
	claims, err := tm.codec.Verify(tokenStr)
	if err != nil {
		return "", err
	}
	switch TokenType(claims.TokenType) {
	case TokenTypeAccess:
		return TokenTypeAccess, nil
	case TokenTypeRefresh:
		return TokenTypeRefresh, nil
	default:
		return "", ErrTokenUnsupported
	}
}

// Subject extracts the principal identifier from a verified token.
func (tm *TokenManager) Subject(tokenStr string) (string, error) {
	claims, err := tm.codec.Verify(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether the token verifies and has not expired. The subject
// is not checked; validation endpoints use this form.
func (tm *TokenManager) IsValid(tokenStr string) bool {
	_, err := tm.codec.Verify(tokenStr)
	return err == nil
}

// IsValidFor reports whether the token verifies, has not expired, and was
// issued for the expected subject.
func (tm *TokenManager) IsValidFor(tokenStr, expectedSubject string) bool {
	claims, err := tm.codec.Verify(tokenStr)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}

// RemainingLifetime returns time until expiry, zero for invalid or expired
// tokens.
func (tm *TokenManager) RemainingLifetime(tokenStr string) time.Duration {
	claims, err := tm.codec.Verify(tokenStr)
	if err != nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AccessTTL exposes the configured access token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

// RefreshTTL exposes the configured refresh token lifetime.
func (tm *TokenManager) RefreshTTL() time.Duration {
	return tm.refreshTTL
}
