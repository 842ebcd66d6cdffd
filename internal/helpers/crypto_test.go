package helpers

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	c, err := NewCipher(key)
	require.NoError(t, err)
	return c
}

func TestNewCipherRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"wrong length", base64.StdEncoding.EncodeToString([]byte("short"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCipher(tt.key)
			assert.Error(t, err)
		})
	}
}

func TestCipherRoundTrip(t *testing.T) {
	c := testCipher(t)

	for _, phone := range []string{"01234567890", "19998887766", "x"} {
		ciphertext, err := c.Encrypt(phone)
		require.NoError(t, err)
		assert.NotEqual(t, phone, ciphertext)

		plaintext, err := c.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, phone, plaintext)
	}
}

func TestCipherEmptyString(t *testing.T) {
	c := testCipher(t)

	ciphertext, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	plaintext, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestCipherNonDeterministicNonce(t *testing.T) {
	c := testCipher(t)

	first, err := c.Encrypt("01234567890")
	require.NoError(t, err)
	second, err := c.Encrypt("01234567890")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCipherRejectsTamperedCiphertext(t *testing.T) {
	c := testCipher(t)

	ciphertext, err := c.Encrypt("01234567890")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = c.Decrypt(tampered)
	assert.Error(t, err)
}

func TestCipherRejectsShortCiphertext(t *testing.T) {
	c := testCipher(t)

	_, err := c.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, otp, 6)
		assert.False(t, strings.HasPrefix(otp, "0"), "OTP %s should be in 100000..999999", otp)
	}
}

func TestRandomPassword(t *testing.T) {
	first, err := RandomPassword()
	require.NoError(t, err)
	second, err := RandomPassword()
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}
