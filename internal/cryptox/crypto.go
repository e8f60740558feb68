// Package cryptox implements the vault's key derivation and secret cipher:
// Argon2id for turning a master password into an encryption key,
// PBKDF2-HMAC-SHA256 for the stored authentication hash, and AES-GCM for
// authenticated encryption of secret payloads.
//
// The authentication hash and the encryption key are derived over separate
// salts, so the persisted hash can never be used to reconstruct the key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"passvault/internal/common"
)

const (
	// KeySize is the length of derived keys and password hashes.
	KeySize = 32

	// SaltSize is the length of generated salts.
	SaltSize = 16
)

// DeriveKey derives the symmetric encryption key from a master password and
// salt using Argon2id. Deterministic for fixed inputs; the result is never
// persisted.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// HashPassword computes the iterated PBKDF2-HMAC-SHA256 hash used to verify
// the master password. It must only ever be compared against a stored hash,
// never used as key material.
func HashPassword(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}

// Cipher provides authenticated encryption of secret payloads under a fixed
// key. The zero value (and a nil pointer) has no key and rejects every call
// with common.ErrNotInitialized.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher returns a Cipher sealed over the given 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns
// nonce || ciphertext as a single blob. Two calls with identical plaintext
// produce different blobs. Empty plaintext is valid and round-trips to empty.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if c == nil || c.aead == nil {
		return nil, common.ErrNotInitialized
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Any truncation, bit flip or
// mismatch with the key fails with common.ErrAuthenticationFailed; corrupted
// input is never returned as plaintext.
func (c *Cipher) Decrypt(blob []byte) ([]byte, error) {
	if c == nil || c.aead == nil {
		return nil, common.ErrNotInitialized
	}
	ns := c.aead.NonceSize()
	if len(blob) < ns {
		return nil, common.ErrAuthenticationFailed
	}
	plaintext, err := c.aead.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return nil, common.ErrAuthenticationFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
