package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/common"
)

func testCipher(t *testing.T, password, salt string) *Cipher {
	t.Helper()
	c, err := NewCipher(DeriveKey([]byte(password), []byte(salt)))
	require.NoError(t, err)
	return c
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))
	k2 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeySize)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	k1 := DeriveKey([]byte("secret-password"), []byte("salt-one"))
	k2 := DeriveKey([]byte("secret-password"), []byte("salt-two"))
	assert.NotEqual(t, k1, k2)
}

func TestHashPassword_Deterministic(t *testing.T) {
	h1 := HashPassword([]byte("pw"), []byte("salt"), 100_000)
	h2 := HashPassword([]byte("pw"), []byte("salt"), 100_000)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, KeySize)

	// Hash must differ from the encryption key for the same inputs.
	assert.NotEqual(t, h1, DeriveKey([]byte("pw"), []byte("salt")))
}

func TestCipher_RoundTrip(t *testing.T) {
	c := testCipher(t, "pw", "salt")

	cases := []string{
		"p@ss",
		"",
		"with\x00embedded null",
		"пароль-ユニコード-✓",
	}
	for _, tc := range cases {
		blob, err := c.Encrypt([]byte(tc))
		require.NoError(t, err)

		got, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, tc, string(got))
	}
}

func TestCipher_NonDeterministic(t *testing.T) {
	c := testCipher(t, "pw", "salt")

	b1, err := c.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	b2, err := c.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, b1, b2)
}

func TestCipher_WrongKeyFails(t *testing.T) {
	c1 := testCipher(t, "pw-one", "salt")
	c2 := testCipher(t, "pw-two", "salt")

	blob, err := c1.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = c2.Decrypt(blob)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestCipher_TamperedCiphertextFails(t *testing.T) {
	c := testCipher(t, "pw", "salt")

	blob, err := c.Encrypt([]byte("secret"))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0x01
	_, err = c.Decrypt(blob)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestCipher_TruncatedCiphertextFails(t *testing.T) {
	c := testCipher(t, "pw", "salt")

	blob, err := c.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = c.Decrypt(blob[:len(blob)-1])
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)

	_, err = c.Decrypt(blob[:4])
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestCipher_NotInitialized(t *testing.T) {
	var c *Cipher

	_, err := c.Encrypt([]byte("secret"))
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	_, err = c.Decrypt([]byte("blob"))
	assert.ErrorIs(t, err, common.ErrNotInitialized)
}
