package security

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

// JWTVerifier validates platform-issued RS256 bearer tokens against the auth
// service's public key. An HS256 shared-secret mode exists for local/dev runs
// where no platform keypair is provisioned. This service never signs tokens.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
	hsSecret  []byte
}

// NewJWTVerifier builds a verifier from the configured public key PEM.
func NewJWTVerifier(publicKeyPEM string) (*JWTVerifier, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("jwt public key is required")
	}
	pub, err := parseRSAPublic(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return &JWTVerifier{publicKey: pub}, nil
}

// NewHSVerifier builds a shared-secret verifier for local/dev runtimes.
func NewHSVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt shared secret is required")
	}
	return &JWTVerifier{hsSecret: []byte(secret)}, nil
}

type dealJWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (ports.AuthClaims, error) {
	method := jwt.SigningMethodRS256.Alg()
	var key any = v.publicKey
	if v.hsSecret != nil {
		method = jwt.SigningMethodHS256.Alg()
		key = v.hsSecret
	}

	parsed, err := jwt.ParseWithClaims(raw, &dealJWTClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != method {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return key, nil
	}, jwt.WithValidMethods([]string{method}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*dealJWTClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: token subject is not a user id", domain.ErrUnauthorized)
	}

	return ports.AuthClaims{
		UserID: userID,
		Role:   claims.Role,
	}, nil
}

func parseRSAPublic(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return pub, nil
}
