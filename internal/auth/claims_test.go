package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-jwt-signing-32b"

func TestGenerateAndParseAccessToken(t *testing.T) {
	token, expires, err := GenerateAccessToken(Principal{Subject: "admin", Role: RoleAdmin}, testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAccessToken() returned empty token")
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "admin")
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.ID == "" {
		t.Error("JTI (ID) should not be empty")
	}
	if !claims.ExpiresAt.Time.Equal(expires.Truncate(time.Second)) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, expires)
	}
	if !claims.IsAdmin() {
		t.Error("IsAdmin() = false for admin token")
	}
}

func TestGenerateAccessToken_DefaultTTL(t *testing.T) {
	_, expires, err := GenerateAccessToken(Principal{Subject: "svc", Role: RoleUser}, testSecret, 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	diff := expires.Sub(time.Now().Add(15 * time.Minute))
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("default TTL should be ~15 minutes, got expiry diff of %v", diff)
	}
}

func TestGenerateAccessToken_UnknownRole(t *testing.T) {
	_, _, err := GenerateAccessToken(Principal{Subject: "x", Role: "owner"}, testSecret, time.Minute)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	valid, _, err := GenerateAccessToken(Principal{Subject: "svc", Role: RoleUser}, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	expired := signClaims(t, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Role: RoleAdmin,
	})
	noSubject := signClaims(t, CustomClaims{Role: RoleAdmin})
	badRole := signClaims(t, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
		Role:             "root",
	})

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty", "", testSecret},
		{"garbage", "not-a-valid-jwt", testSecret},
		{"malformed", "abc.def", testSecret},
		{"wrong secret", valid, "another-secret-of-sufficient-size"},
		{"expired", expired, testSecret},
		{"missing subject", noSubject, testSecret},
		{"unknown role", badRole, testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			if !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
		Role:             RoleAdmin,
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := ParseToken(signed, testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken(alg=none) error = %v, want ErrTokenInvalid", err)
	}
}

func TestCustomClaims_IsAdmin(t *testing.T) {
	var nilClaims *CustomClaims
	if nilClaims.IsAdmin() {
		t.Error("nil claims are admin")
	}
	if (&CustomClaims{Role: RoleUser}).IsAdmin() {
		t.Error("user claims are admin")
	}
}

func signClaims(t *testing.T, claims CustomClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing claims: %v", err)
	}
	return signed
}
