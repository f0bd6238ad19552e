package managers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	jwtMgr := NewJWTManager([]byte("test-secret"))

	token, err := jwtMgr.GenerateJWT("650a1f2e8b3c4d5e6f708192")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userId, err := jwtMgr.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "650a1f2e8b3c4d5e6f708192", userId)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager([]byte("test-secret"))
	verifier := NewJWTManager([]byte("another-secret"))

	token, err := issuer.GenerateJWT("650a1f2e8b3c4d5e6f708192")
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	jwtMgr := NewJWTManager(secret)

	claims := TokenClaims{
		User: UserClaim{ID: "650a1f2e8b3c4d5e6f708192"},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-11 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsMissingUserClaim(t *testing.T) {
	secret := []byte("test-secret")
	jwtMgr := NewJWTManager(secret)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsUnsignedToken(t *testing.T) {
	jwtMgr := NewJWTManager([]byte("test-secret"))

	claims := TokenClaims{
		User: UserClaim{ID: "650a1f2e8b3c4d5e6f708192"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(unsigned)
	assert.Error(t, err)
}
