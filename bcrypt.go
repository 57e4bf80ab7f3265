package users

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretBytes is the smallest entropy we accept for generated secrets.
const MinSecretBytes = 8

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomSecret generates a hex-encoded secret with byteLength bytes of
// cryptographically secure entropy. byteLength is raised to MinSecretBytes
// when smaller.
func RandomSecret(byteLength int) (string, error) {
	if byteLength < MinSecretBytes {
		byteLength = MinSecretBytes
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read random bytes")
	}

	return hex.EncodeToString(buf), nil
}

// BcryptHasher is the default PasswordAuthenticator and SecretGenerator.
// A zero Cost uses the build-dependent package default.
type BcryptHasher struct {
	Cost int
}

// Verify interface compliance
var (
	_ PasswordAuthenticator = BcryptHasher{}
	_ SecretGenerator       = BcryptHasher{}
)

// HashPassword hashes the given secret with the configured cost.
func (h BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := h.Cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(out), err
}

// ComparePasswordAndHash verifies a cleartext secret against a stored hash.
func (h BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

// RandomSecret generates a new random secret.
func (h BcryptHasher) RandomSecret(byteLength int) (string, error) {
	return RandomSecret(byteLength)
}
