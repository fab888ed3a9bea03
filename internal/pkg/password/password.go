// Package password implements the credential hashing scheme: scrypt with a
// random per-password salt, stored as hex(key) + "." + hex(salt).
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Fixed scrypt cost. Not parameterised: changing these invalidates every
// stored hash, since the parameters are not encoded in the output.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	saltLen = 16
	keyLen  = 64
)

var ErrMalformedHash = errors.New("malformed password hash")

// Hash derives a storable hash from a plaintext password.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// Verify re-derives a key from the candidate and the stored salt and compares
// it against the stored key in constant time. A malformed stored value is an
// error; callers treat it as a failed verification.
func Verify(candidate, stored string) (bool, error) {
	keyHex, saltHex, found := strings.Cut(stored, ".")
	if !found {
		return false, ErrMalformedHash
	}

	storedKey, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrMalformedHash
	}

	key, err := scrypt.Key([]byte(candidate), salt, scryptN, scryptR, scryptP, len(storedKey))
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}

	return subtle.ConstantTimeCompare(storedKey, key) == 1, nil
}
