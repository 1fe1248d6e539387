package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestPasswordHashing(t *testing.T) {
	a := NewAuthService(testSecret, time.Hour)

	hash, err := a.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, a.CompareHashAndPassword(hash, "s3cret-pass"))
	assert.Error(t, a.CompareHashAndPassword(hash, "wrong-pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuthService(testSecret, time.Hour)

	token, err := a.GenerateToken("42")
	require.NoError(t, err)

	sub, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", sub)

	other, err := a.GenerateToken("42")
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestValidateToken_Rejects(t *testing.T) {
	a := NewAuthService(testSecret, time.Hour)
	token, err := a.GenerateToken("7")
	require.NoError(t, err)

	other := NewAuthService("another-secret-another-secret-xx", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(testSecret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.GenerateToken("7")
	require.NoError(t, err)
	_, err = a.ValidateToken(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "7"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	a := NewAuthService(testSecret, time.Hour)
	first, err := a.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := a.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, first, 44)
	assert.NotEqual(t, first, second)
}
