// Package auth issues and verifies the HS256 bearer tokens used by the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MinKeySize is the shortest HMAC key accepted.
const MinKeySize = 32

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrKeyTooShort  = fmt.Errorf("signing key must be at least %d bytes", MinKeySize)
)

// Claims carried by an InfraFlow token. Subject is the user id.
type Claims struct {
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// User is who a token is issued for.
type User struct {
	ID           string
	Email        string
	Name         string
	Organization string
	Role         string
}

// Issuer signs and verifies tokens with one shared key.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key []byte, ttl time.Duration) (*Issuer, error) {
	if len(key) < MinKeySize {
		return nil, ErrKeyTooShort
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for u and its expiry.
func (i *Issuer) Issue(u User) (string, time.Time, error) {
	if u.ID == "" {
		return "", time.Time{}, errors.New("user id is required")
	}
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	if !validRole(role) {
		return "", time.Time{}, fmt.Errorf("unknown role %q", role)
	}

	now := i.now().UTC().Truncate(time.Second)
	exp := now.Add(i.ttl)
	claims := Claims{
		Email:        u.Email,
		Name:         u.Name,
		Organization: u.Organization,
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    "infraflow",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses token, checking its signature, algorithm, expiry and role.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || !validRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func validRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}
