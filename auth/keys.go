package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// displayPrefixRandomChars is how many characters of the random part are kept
// in the display prefix. Enough to recognize a key in a UI, not enough to
// reconstruct it.
const displayPrefixRandomChars = 8

// GenerateKey creates a new API key.
//
// Returns the plaintext key (shown to the caller exactly once), its SHA-256
// hash for storage, and a short display prefix for identification. The
// plaintext is the namespace prefix followed by base64url-encoded random
// bytes.
func GenerateKey(prefix string, length int) (plaintext, hash, displayPrefix string, err error) {
	if prefix == "" {
		return "", "", "", fmt.Errorf("key prefix must not be empty")
	}
	if length < 1 {
		return "", "", "", fmt.Errorf("key length must be positive, got %d", length)
	}

	random := make([]byte, length)
	if _, err := rand.Read(random); err != nil {
		return "", "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	plaintext = prefix + base64.RawURLEncoding.EncodeToString(random)
	hash = HashKey(plaintext)

	cut := len(prefix) + displayPrefixRandomChars
	if cut > len(plaintext) {
		cut = len(plaintext)
	}
	displayPrefix = plaintext[:cut]

	return plaintext, hash, displayPrefix, nil
}

// HashKey returns the hex-encoded SHA-256 digest of a plaintext key.
// Lookup and verification both go through this digest; the plaintext is
// never persisted.
func HashKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyKey reports whether a plaintext key matches a stored hash.
// The comparison is constant-time.
func VerifyKey(plaintext, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashKey(plaintext)), []byte(storedHash)) == 1
}
