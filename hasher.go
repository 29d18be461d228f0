package credentials

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SaltSize is the number of random bytes behind every salt
const SaltSize = 16

// PasswordHasher derives and checks password digests
type PasswordHasher interface {
	NewSalt() (string, error)
	HashPassword(password, salt string) string
	ComparePasswordAndHash(password, salt, digest string) error
}

// HMACHasher digests passwords as hex(HMAC-SHA256(salt, password))
type HMACHasher struct {
	random io.Reader
}

var _ PasswordHasher = HMACHasher{}

// NewHMACHasher returns a hasher reading salts from crypto/rand
func NewHMACHasher() HMACHasher {
	return HMACHasher{random: rand.Reader}
}

// NewHMACHasherWithReader returns a hasher reading salts from r
func NewHMACHasherWithReader(r io.Reader) HMACHasher {
	return HMACHasher{random: r}
}

// NewSalt returns a fresh hex encoded salt
func (h HMACHasher) NewSalt() (string, error) {
	r := h.random
	if r == nil {
		r = rand.Reader
	}

	b := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", wrapError(ErrRandomSourceUnavailable, err)
	}

	return hex.EncodeToString(b), nil
}

func (h HMACHasher) HashPassword(password, salt string) string {
	return HashPassword(password, salt)
}

func (h HMACHasher) ComparePasswordAndHash(password, salt, digest string) error {
	return ComparePasswordAndHash(password, salt, digest)
}

// NewSalt generates a salt using crypto/rand
func NewSalt() (string, error) {
	return NewHMACHasher().NewSalt()
}

// HashPassword will generate the password digest for the given salt.
// The salt string itself is the HMAC key.
func HashPassword(password, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// ComparePasswordAndHash will recompute the digest with the stored
// salt and compare it to the stored digest in constant time
func ComparePasswordAndHash(password, salt, digest string) error {
	candidate := HashPassword(password, salt)
	if !hmac.Equal([]byte(candidate), []byte(digest)) {
		return ErrMismatchedHashAndPassword
	}
	return nil
}
