package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryption_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	require.Len(t, key, 32)

	enc, err := NewEncryption(key)
	require.NoError(t, err)
	require.True(t, enc.Enabled())

	sealed, err := enc.Encrypt("motion-secret")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "motion-secret")

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "motion-secret", opened)
}

func TestEncryption_FreshNoncePerCall(t *testing.T) {
	key, _ := GenerateKey()
	enc, _ := NewEncryption(key)

	a, err := enc.Encrypt("same")
	require.NoError(t, err)
	b, err := enc.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncryption_Disabled(t *testing.T) {
	enc, err := NewEncryption(nil)
	require.NoError(t, err)
	assert.False(t, enc.Enabled())

	out, err := enc.Encrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	out, err = enc.Decrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	var nilEnc *Encryption
	assert.False(t, nilEnc.Enabled())
}

func TestEncryption_InvalidKeySize(t *testing.T) {
	_, err := NewEncryption([]byte("short"))
	assert.Error(t, err)
}

func TestEncryption_Tampered(t *testing.T) {
	key, _ := GenerateKey()
	enc, _ := NewEncryption(key)
	sealed, err := enc.Encrypt("motion-secret")
	require.NoError(t, err)

	tampered := []byte(sealed)
	i := len(tampered) / 2
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}

	_, err = enc.Decrypt(string(tampered))
	assert.Error(t, err)

	_, err = enc.Decrypt("!!not base64!!")
	assert.Error(t, err)

	_, err = enc.Decrypt("AAAA")
	assert.Error(t, err)
}

func TestKeyFromBase64(t *testing.T) {
	key, _ := GenerateKey()

	decoded, err := KeyFromBase64(KeyToBase64(key))
	require.NoError(t, err)
	assert.Equal(t, key, decoded)

	decoded, err = KeyFromBase64("")
	require.NoError(t, err)
	assert.Nil(t, decoded)

	_, err = KeyFromBase64("not-base64!")
	assert.Error(t, err)

	_, err = KeyFromBase64(KeyToBase64([]byte(strings.Repeat("x", 16))))
	assert.Error(t, err)
}
