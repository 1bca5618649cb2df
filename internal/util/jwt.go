package util

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of Supabase access token claims the API reads.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates Supabase access tokens signed with the project's HMAC
// secret or with an asymmetric signing key.
type Verifier struct {
	secret    []byte
	publicKey crypto.PublicKey
	methods   []string
}

// NewVerifier builds a Verifier from an HMAC secret, a PEM-encoded public key,
// or both. At least one is required.
func NewVerifier(secret, publicKeyPEM string) (*Verifier, error) {
	v := &Verifier{}
	if secret != "" {
		v.secret = []byte(secret)
		v.methods = append(v.methods, "HS256", "HS384", "HS512")
	}
	if publicKeyPEM != "" {
		key, err := ParsePublicKey(publicKeyPEM)
		if err != nil {
			return nil, err
		}
		v.publicKey = key
		switch key.(type) {
		case *ecdsa.PublicKey:
			v.methods = append(v.methods, "ES256", "ES384", "ES512")
		case *rsa.PublicKey:
			v.methods = append(v.methods, "RS256", "RS384", "RS512")
		}
	}
	if len(v.methods) == 0 {
		return nil, errors.New("no JWT secret or public key configured")
	}
	return v, nil
}

// ParsePublicKey parses a PEM-encoded ECDSA or RSA public key
func ParsePublicKey(pemKey string) (crypto.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	switch pub.(type) {
	case *ecdsa.PublicKey, *rsa.PublicKey:
		return pub, nil
	default:
		return nil, errors.New("public key is neither ECDSA nor RSA")
	}
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.secret == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	case *jwt.SigningMethodECDSA, *jwt.SigningMethodRSA:
		if v.publicKey == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	}
	return nil, fmt.Errorf("unsupported signing algorithm: %v", token.Header["alg"])
}

// Validate parses and verifies tokenString. The subject is the user id.
func (v *Verifier) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
