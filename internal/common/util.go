package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// GenerateRandBytes returns size cryptographically random bytes.
// It panics if the system randomness source fails.
func GenerateRandBytes(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandHexString generates a random hexadecimal string encoding size
// random bytes; the resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeBytes overwrites the contents of b with zeros. Used to remove key
// material and plaintext secrets from memory after use. A nil slice is a
// no-op.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*-_=+"

// GeneratePassword returns a random password of the given length drawn from
// letters, digits and a set of punctuation characters.
func GeneratePassword(length int) (string, error) {
	max := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}
