package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Verification failures exposed by the codec. Callers above the token layer only
// ever see these, never the library's parse errors.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenUnsupported      = errors.New("token unsupported")
)

const (
	// minKeyBytes is the HS256 key floor. Shorter secrets are right-padded with
	// keyPadByte instead of rejected; startup logs a warning for them.
	minKeyBytes = 32
	keyPadByte  = '0'
)

// Claims is the token payload: registered sub/iat/exp plus the type claim that
// separates access tokens from refresh tokens.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies compact HS256 tokens. It holds no state beyond the
// derived key and is safe for concurrent use.
type Codec struct {
	key []byte
}

// NewCodec derives the signing key from the configured secret.
func NewCodec(secret string) *Codec {
	return &Codec{key: signingKey(secret)}
}

func signingKey(secret string) []byte {
	key := []byte(secret)
	for len(key) < minKeyBytes {
		key = append(key, keyPadByte)
	}
	return key
}

// Sign produces a signed compact token for the given claims.
func (c *Codec) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Verify parses and validates a compact token. On failure it returns one of the
// ErrToken* values; the claims are only returned when the signature verifies and
// the token has not expired.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenUnsupported
		}
		return c.key, nil
	})
	if err != nil {
		return nil, normalizeTokenError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func normalizeTokenError(err error) error {
	switch {
	case errors.Is(err, ErrTokenUnsupported):
		return ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenUnsupported
	default:
		return ErrTokenMalformed
	}
}

func newClaims(subject, tokenType string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
