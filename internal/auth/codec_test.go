package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-with-enough-length"

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec(testSecret)

	claims := newClaims("alice", string(TokenTypeAccess), time.Now(), time.Hour)
	token, err := codec.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	parsed, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", parsed.Subject)
	assert.Equal(t, string(TokenTypeAccess), parsed.TokenType)
}

func TestCodecShortSecretPadding(t *testing.T) {
	key := signingKey("abc")
	assert.Len(t, key, 32)
	assert.Equal(t, byte('a'), key[0])
	assert.Equal(t, byte('0'), key[31])

	// Signing and verifying with the same short secret must agree.
	codec := NewCodec("abc")
	token, err := codec.Sign(newClaims("bob", string(TokenTypeAccess), time.Now(), time.Hour))
	require.NoError(t, err)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	// A secret already at 32 bytes is used as-is.
	long := strings.Repeat("x", 40)
	assert.Len(t, signingKey(long), 40)
}

func TestCodecWrongKey(t *testing.T) {
	token, err := NewCodec(testSecret).Sign(newClaims("alice", string(TokenTypeAccess), time.Now(), time.Hour))
	require.NoError(t, err)

	_, err = NewCodec("a-completely-different-secret-key").Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestCodecTamperedToken(t *testing.T) {
	codec := NewCodec(testSecret)
	token, err := codec.Sign(newClaims("alice", string(TokenTypeAccess), time.Now(), time.Hour))
	require.NoError(t, err)

	require.Len(t, strings.Split(token, "."), 3)

	for segment := 1; segment <= 2; segment++ {
		parts := strings.Split(token, ".")
		mutated := []byte(parts[segment])
		if mutated[0] == 'A' {
			mutated[0] = 'B'
		} else {
			mutated[0] = 'A'
		}
		parts[segment] = string(mutated)
		tampered := strings.Join(parts, ".")

		claims, err := codec.Verify(tampered)
		assert.Nil(t, claims)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTokenSignatureInvalid) || errors.Is(err, ErrTokenMalformed),
			"tampered segment %d must fail as signature/malformed, got %v", segment, err)
	}
}

func TestCodecExpiredToken(t *testing.T) {
	codec := NewCodec(testSecret)
	token, err := codec.Sign(newClaims("alice", string(TokenTypeAccess), time.Now().Add(-2*time.Hour), time.Hour))
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCodecUnsupportedAlgorithm(t *testing.T) {
	claims := newClaims("alice", string(TokenTypeAccess), time.Now(), time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	signed, err := token.SignedString(signingKey(testSecret))
	require.NoError(t, err)

	_, err = NewCodec(testSecret).Verify(signed)
	assert.ErrorIs(t, err, ErrTokenUnsupported)
}

func TestCodecGarbageToken(t *testing.T) {
	codec := NewCodec(testSecret)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(input)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", input)
	}
}

func TestCodecMissingSubject(t *testing.T) {
	codec := NewCodec(testSecret)
	token, err := codec.Sign(newClaims("", string(TokenTypeAccess), time.Now(), time.Hour))
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
