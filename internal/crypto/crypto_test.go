package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	k1, err := GenerateKey()
	require.NoError(t, err)
	k2, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, string(k1), keyBytes*2)
	assert.NotEqual(t, k1, k2)
	// printable hex
	for _, c := range string(k1) {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{"short", "hello"},
		{"unicode", "птичка в клетке 🗒"},
		{"multiline", "line one\nline two\n"},
		{"long", string(make([]byte, 64<<10))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := GenerateKey()
			require.NoError(t, err)

			ciphertext, err := Encrypt(tt.plaintext, key)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, ciphertext)

			got, err := Decrypt(ciphertext, key)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	k1, err := GenerateKey()
	require.NoError(t, err)
	k2, err := GenerateKey()
	require.NoError(t, err)

	ciphertext, err := Encrypt("secret", k1)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, k2)
	assert.ErrorIs(t, err, ErrKeyMismatch)
}

func TestDecrypt_GarbageInput(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{"not hex", "zzzz-not-hex"},
		{"empty", ""},
		{"too short", "ab"},
		{"valid hex garbage", "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.ciphertext, key)
			assert.ErrorIs(t, err, ErrKeyMismatch)
		})
	}
}

func TestDecrypt_TruncatedEnvelope(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	ciphertext, err := Encrypt("secret", key)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext[:len(ciphertext)-8], key)
	assert.ErrorIs(t, err, ErrKeyMismatch)
}

func TestDeriveKey(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	k1 := DeriveKey("correct horse battery staple", salt)
	k2 := DeriveKey("correct horse battery staple", salt)
	assert.Equal(t, k1, k2, "same passphrase and salt must derive the same key")
	assert.Len(t, string(k1), keyBytes*2)

	otherSalt, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, k1, DeriveKey("correct horse battery staple", otherSalt))
	assert.NotEqual(t, k1, DeriveKey("wrong passphrase", salt))
}

func TestDeriveKey_RoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	key := DeriveKey("pass", salt)
	ciphertext, err := Encrypt("note for a friend", key)
	require.NoError(t, err)

	got, err := Decrypt(ciphertext, DeriveKey("pass", salt))
	require.NoError(t, err)
	assert.Equal(t, "note for a friend", got)

	_, err = Decrypt(ciphertext, DeriveKey("pass2", salt))
	assert.ErrorIs(t, err, ErrKeyMismatch)
}
