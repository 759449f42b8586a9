package application

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidSecretDigest       = errors.New("invalid secret digest format")
	ErrIncompatibleDigestVersion = errors.New("incompatible secret digest version")
	errSecretMismatch            = errors.New("secret mismatch")
)

type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// NewPassSecret returns a fresh random secret for a pass credential. The
// secret travels to the holder inside the bearer token; only its digest is
// persisted.
func NewPassSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// CreateSecretDigest hashes a pass secret with argon2id for persistence.
func CreateSecretDigest(secret string, params Argon2idParams) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// Format is $argon2id$v=19$m=...,t=...,p=...$salt$hash
	format := "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s"
	return fmt.Sprintf(format, argon2.Version, params.Memory, params.Iterations, params.Parallelism, b64Salt, b64Hash), nil
}

// VerifySecret compares a presented secret against a persisted digest.
func VerifySecret(digest, secret string) error {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return ErrInvalidSecretDigest
	}

	if parts[1] != "argon2id" {
		return ErrInvalidSecretDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return err
	}
	if version != argon2.Version {
		return ErrIncompatibleDigestVersion
	}

	var params Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return err
	}
	params.SaltLength = uint32(len(salt))

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return err
	}
	params.KeyLength = uint32(len(decodedHash))

	comparisonHash := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	if subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1 {
		return nil
	}

	return errSecretMismatch
}

// EncodeToken joins a credential ID and its secret into a bearer token.
func EncodeToken(credentialID, secret string) string {
	return credentialID + "." + secret
}

// DecodeToken splits a bearer token into credential ID and secret.
func DecodeToken(token string) (credentialID, secret string, ok bool) {
	credentialID, secret, ok = strings.Cut(token, ".")
	if !ok || credentialID == "" || secret == "" {
		return "", "", false
	}
	return credentialID, secret, true
}
