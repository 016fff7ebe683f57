package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/domain"
)

// Claims holds the session token payload. Tokens are self-contained: any
// process holding the signing secret can verify them without shared session
// state, and expiry is the only termination — there is no revocation list.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DefaultTokenTTL is the fixed session validity window.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned when a token cannot be parsed, fails signature
// verification, or has expired.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Identity is the authenticated caller's claim snapshot. It is immutable for
// the token's lifetime; the credential store may diverge until re-issue.
type Identity struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     domain.Role
}

// IssueToken creates a signed session token for the user.
func IssueToken(secret string, u *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "onair",
		},
		UserID:   u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueToken: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a session token. It is a pure function of
// the token and the signing secret; no I/O.
func VerifyToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("auth.VerifyToken: %w", ErrInvalidToken)
	}

	if !token.Valid {
		return nil, fmt.Errorf("auth.VerifyToken: %w", ErrInvalidToken)
	}

	return claims, nil
}

// Identity converts verified claims into a typed identity.
func (c *Claims) Identity() (*Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth.Claims.Identity: %w", ErrInvalidToken)
	}

	return &Identity{
		ID:       id,
		Username: c.Username,
		Email:    c.Email,
		Role:     domain.Role(c.Role),
	}, nil
}
