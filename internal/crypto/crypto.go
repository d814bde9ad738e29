// Package crypto implements the symmetric encryption used for note bodies.
// Every note gets its own random key; the ciphertext envelope is
// self-contained (nonce embedded), so a (ciphertext, key) pair is all that
// is needed to recover the plaintext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrKeyMismatch is returned when a ciphertext cannot be decrypted with the
// given key: wrong key, corrupted or truncated envelope, or a decryption
// that produced no usable plaintext.
var ErrKeyMismatch = errors.New("key mismatch")

const (
	keyBytes = 16 // 128 bits of entropy, hex-encoded to 32 printable chars

	pbkdf2Iterations = 100000
	pbkdf2SaltLength = 16
)

// Key is printable symmetric key material.
type Key string

// GenerateKey returns fresh random key material.
func GenerateKey() (Key, error) {
	raw := make([]byte, keyBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return Key(hex.EncodeToString(raw)), nil
}

// DeriveKey derives key material from a passphrase and a per-note salt via
// PBKDF2-SHA256. The same (passphrase, salt) pair always yields the same key,
// which is what lets a passphrase-protected share be decrypted without any
// key material being stored or transmitted.
func DeriveKey(passphrase string, salt []byte) Key {
	raw := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keyBytes, sha256.New)
	return Key(hex.EncodeToString(raw))
}

// GenerateSalt returns a random salt for DeriveKey.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Encrypt seals plaintext under key with AES-256-GCM. The returned envelope
// is hex(nonce || ciphertext). It never fails for non-empty input short of
// the system RNG being unavailable.
func Encrypt(plaintext string, key Key) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. Any failure to recover a
// non-empty plaintext is reported as ErrKeyMismatch: GCM authentication
// already rejects a wrong key, and the non-empty check is the cheap
// integrity gate callers rely on.
func Decrypt(ciphertext string, key Key) (string, error) {
	sealed, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", ErrKeyMismatch
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrKeyMismatch
	}

	nonce, body := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return "", ErrKeyMismatch
	}
	if len(plaintext) == 0 {
		return "", ErrKeyMismatch
	}

	return string(plaintext), nil
}

// newGCM stretches the printable key to a 32-byte AES key via SHA-256.
func newGCM(key Key) (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}
