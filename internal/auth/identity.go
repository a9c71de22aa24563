// Package auth hashes client credentials and issues and verifies the bearer
// tokens that identify a tenant on every request.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingSecret = errors.New("token signing secret is empty")
)

const issuer = "leaddesk"

// Claims carried by a leaddesk bearer token. Subject holds the tenant id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity issues and verifies HS256 tokens.
type Identity struct {
	secret []byte
	ttl    time.Duration
}

func NewIdentity(secret string, ttl time.Duration) (*Identity, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Identity{secret: []byte(secret), ttl: ttl}, nil
}

func (i *Identity) Issue(t *domain.Tenant) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: t.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(t.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Identity) Verify(tokenString string) (*domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	tenantID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || tenantID <= 0 {
		return nil, ErrInvalidToken
	}
	return &domain.Principal{TenantID: tenantID, Email: claims.Email}, nil
}

func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

func CompareSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
