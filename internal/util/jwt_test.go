package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "student@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestValidateHS256(t *testing.T) {
	v, err := NewVerifier("super-secret-jwt-token-with-at-least-32-characters", "")
	require.NoError(t, err)

	claims, err := v.Validate(signHS256(t, "super-secret-jwt-token-with-at-least-32-characters", "user-1", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "student@example.com", claims.Email)

	_, err = v.Validate(signHS256(t, "another-secret", "user-1", time.Now().Add(time.Hour)))
	assert.Error(t, err)

	_, err = v.Validate(signHS256(t, "super-secret-jwt-token-with-at-least-32-characters", "user-1", time.Now().Add(-time.Minute)))
	assert.Error(t, err, "expired tokens are rejected")

	_, err = v.Validate(signHS256(t, "super-secret-jwt-token-with-at-least-32-characters", "", time.Now().Add(time.Hour)))
	assert.Error(t, err, "tokens without a subject are rejected")
}

func TestValidateES256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := NewVerifier("", pemKey)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	claims, err := v.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.Subject)

	// An HMAC token must not be accepted when only a public key is configured.
	_, err = v.Validate(signHS256(t, "whatever", "user-2", time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func TestNewVerifierRequiresKeyMaterial(t *testing.T) {
	_, err := NewVerifier("", "")
	assert.Error(t, err)

	_, err = NewVerifier("", "not a pem")
	assert.Error(t, err)
}
