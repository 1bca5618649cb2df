package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ecJWK(key *ecdsa.PrivateKey) JWK {
	return JWK{
		Kty: "EC",
		Alg: "ES256",
		Use: "sig",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(key.X.FillBytes(make([]byte, 32))),
		Y:   base64.RawURLEncoding.EncodeToString(key.Y.FillBytes(make([]byte, 32))),
	}
}

func TestJWKToPEM(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pub, err := ecJWK(priv).PublicKey()
	require.NoError(t, err)
	pemKey, err := EncodePublicKeyPEM(pub)
	require.NoError(t, err)

	parsed, err := ParsePublicKey(pemKey)
	require.NoError(t, err)
	ec, ok := parsed.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.True(t, ec.Equal(&priv.PublicKey))

	// The PEM is accepted as verifier input.
	_, err = NewVerifier("", pemKey)
	assert.NoError(t, err)
}

func TestJWKRejectsBadKeys(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	k := ecJWK(priv)
	k.Crv = "secp256k1"
	_, err = k.PublicKey()
	assert.Error(t, err)

	k = ecJWK(priv)
	k.Y = k.X
	_, err = k.PublicKey()
	assert.Error(t, err)

	_, err = JWK{Kty: "oct"}.PublicKey()
	assert.Error(t, err)
}

func TestSigningKey(t *testing.T) {
	set := JWKS{Keys: []JWK{{Kid: "enc", Use: "enc"}, {Kid: "sig", Use: "sig"}}}
	k, err := set.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, "sig", k.Kid)

	_, err = JWKS{}.SigningKey()
	assert.Error(t, err)
}
