package auth

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// Authenticator logs in the configured administrator and validates tokens.
type Authenticator struct {
	username     string
	passwordHash string
	secret       string
	ttl          time.Duration
}

// NewAuthenticator creates an authenticator for the admin account
// (username, passwordHash) signing tokens with secret. An empty passwordHash
// disables Login; tokens issued elsewhere with the same secret still verify.
func NewAuthenticator(username, passwordHash, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		username:     username,
		passwordHash: passwordHash,
		secret:       secret,
		ttl:          ttl,
	}
}

// Login verifies the admin credentials and returns a signed admin token
// with its expiry.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	if a.passwordHash == "" {
		return "", time.Time{}, ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK, err := VerifyPassword(password, a.passwordHash)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("verifying admin password: %w", err)
	}
	if !userOK || !passOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return a.Issue(Principal{Subject: a.username, Role: RoleAdmin})
}

// Issue signs a token for p with the configured lifetime.
func (a *Authenticator) Issue(p Principal) (string, time.Time, error) {
	return GenerateAccessToken(p, a.secret, a.ttl)
}

// Authenticate parses a bearer token.
func (a *Authenticator) Authenticate(token string) (*CustomClaims, error) {
	return ParseToken(token, a.secret)
}
