package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultAccessTokenTTL = 15 * time.Minute

// CustomClaims extends the registered JWT claims with the caller's role.
type CustomClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// IsAdmin reports whether the claims grant admin-only commands.
func (c *CustomClaims) IsAdmin() bool {
	return c != nil && HasPermission(c.Role, PermCommandAdmin)
}

// GenerateAccessToken signs an HS256 token for p valid for ttl. A ttl of
// zero or less means 15 minutes. It returns the token and its expiry.
func GenerateAccessToken(p Principal, secret string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}
	if !IsValidRole(p.Role) {
		return "", time.Time{}, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, p.Role)
	}

	now := time.Now()
	expires := now.Add(ttl)
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		Role: p.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing access token: %w", err)
	}
	return signed, expires, nil
}

// ParseToken validates signature, expiry and required claims.
func ParseToken(tokenString, secret string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if !IsValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}
	return claims, nil
}
