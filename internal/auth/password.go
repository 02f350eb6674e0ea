package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters of the hashes printed by "graylogic-ems hash-password".
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16

	phcPrefix = "$argon2id$"
)

// HashPassword hashes password with Argon2id and returns the PHC string
// that goes into security.admin.password_hash.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		phcPrefix,
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// IsPHCHash reports whether s looks like an Argon2id PHC string.
func IsPHCHash(s string) bool {
	return strings.HasPrefix(s, phcPrefix)
}

// CheckAdminHash validates a configured security.admin.password_hash.
// The empty hash is valid and disables login.
func CheckAdminHash(encoded string) error {
	if encoded == "" {
		return nil
	}
	_, _, _, err := decodePHC(encoded)
	return err
}

// VerifyPassword checks password against an Argon2id PHC string in
// constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	salt, key, params, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key))) //nolint:gosec // G115: key length always fits uint32

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC splits "$argon2id$v=19$m=..,t=..,p=..$<salt>$<key>". Every
// failure wraps ErrInvalidAdminHash.
func decodePHC(encoded string) (salt, key []byte, params argonParams, err error) {
	fail := func(format string, args ...any) ([]byte, []byte, argonParams, error) {
		return nil, nil, params, fmt.Errorf("%w: %s", ErrInvalidAdminHash, fmt.Sprintf(format, args...))
	}

	if !IsPHCHash(encoded) {
		return fail("not an argon2id PHC string")
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return fail("expected 6 fields, got %d", len(parts))
	}

	var version int
	if _, scanErr := fmt.Sscanf(parts[2], "v=%d", &version); scanErr != nil {
		return fail("parsing version: %v", scanErr)
	}
	if version != argon2.Version {
		return fail("unsupported argon2 version %d", version)
	}

	if _, scanErr := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); scanErr != nil {
		return fail("parsing parameters: %v", scanErr)
	}
	// argon2.IDKey panics on zero time or threads
	if params.time == 0 || params.threads == 0 {
		return fail("time and parallelism must be positive")
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return fail("decoding salt: %v", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return fail("decoding key: %v", err)
	}
	if len(key) == 0 {
		return fail("empty key")
	}

	return salt, key, params, nil
}
