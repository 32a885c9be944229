// Package tokenx is a minimal HS256 token helper for signing and verifying
// short-lived claims.
package tokenx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("tokenx: invalid token")
	ErrExpiredToken = errors.New("tokenx: token expired")
)

// Claims is the decoded payload of a verified token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	Extra     map[string]any
}

// Issue signs an HS256 token for the subject, valid for ttl. Extra claims
// must not use the reserved keys "sub", "exp", "iat".
func Issue(secret []byte, subject string, ttl time.Duration, extra map[string]any) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("tokenx: empty secret")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range extra {
		switch k {
		case "sub", "exp", "iat":
			return "", fmt.Errorf("tokenx: reserved claim %q", k)
		}
		claims[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses the token, checking signature and expiry.
func Verify(secret []byte, token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	out := Claims{Extra: map[string]any{}}
	if sub, err := mapClaims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	for k, v := range mapClaims {
		switch k {
		case "sub", "exp", "iat":
		default:
			out.Extra[k] = v
		}
	}
	return out, nil
}
