package auth

import (
	"errors"
	"testing"
	"time"
)

func TestAuthenticator_Login(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	a := NewAuthenticator("admin", hash, testSecret, time.Hour)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "admin", "s3cret-pass", nil},
		{"wrong password", "admin", "guess", ErrInvalidCredentials},
		{"wrong username", "root", "s3cret-pass", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expires, err := a.Login(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if time.Until(expires) < 59*time.Minute {
				t.Errorf("expires = %v, want about an hour from now", expires)
			}
			claims, err := a.Authenticate(token)
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if claims.Subject != "admin" || !claims.IsAdmin() {
				t.Errorf("claims = %+v", claims)
			}
		})
	}
}

func TestAuthenticator_LoginDisabled(t *testing.T) {
	a := NewAuthenticator("admin", "", testSecret, time.Hour)

	if _, _, err := a.Login("admin", "anything"); !errors.Is(err, ErrLoginDisabled) {
		t.Errorf("Login() error = %v, want ErrLoginDisabled", err)
	}

	token, _, err := a.Issue(Principal{Subject: "home-assistant", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := a.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if claims.IsAdmin() {
		t.Error("user token grants admin")
	}
}

func TestAuthenticator_BadHash(t *testing.T) {
	a := NewAuthenticator("admin", "$argon2id$broken", testSecret, time.Hour)

	_, _, err := a.Login("admin", "x")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want a hash error", err)
	}
}
