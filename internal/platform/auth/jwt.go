// Package auth verifies HMAC signed bearer tokens for the api
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims the api reads
type Claims struct {
	jwt.RegisteredClaims
}

// HMAC verifies HS256 tokens against one shared secret
type HMAC struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewHMAC returns a verifier; issuer is checked only when non empty
func NewHMAC(secret, issuer string) (*HMAC, error) {
	if secret == "" {
		return nil, errors.New("auth: empty jwt secret")
	}
	return &HMAC{secret: []byte(secret), issuer: issuer, leeway: 30 * time.Second}, nil
}

// Verify parses token and returns its claims when the signature and time claims hold
func (h *HMAC) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(h.leeway),
		jwt.WithExpirationRequired(),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("auth: invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("auth: token subject is required")
	}
	return claims, nil
}

// TokenFunc adapts Verify to the (userID, error) shape httpkit ports use
func (h *HMAC) TokenFunc() func(token string) (string, error) {
	return func(token string) (string, error) {
		c, err := h.Verify(token)
		if err != nil {
			return "", err
		}
		return c.Subject, nil
	}
}

// Sign issues an HS256 token for subject valid for ttl
// for tests and local tooling; the api itself only verifies
func (h *HMAC) Sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    h.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}
