package cipher

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewSymmetric(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewSymmetric(make([]byte, 15))
	assert.Error(t, err, "AES requires 16, 24 or 32 byte keys")
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{name: "email", aad: []byte("stakeholder-1"), plaintext: []byte("cfo@example.org")},
		{name: "empty plaintext", aad: []byte("stakeholder-2"), plaintext: []byte("")},
		{name: "long message", aad: []byte("long"), plaintext: bytes.Repeat([]byte("x"), 10000)},
		{name: "binary data", aad: []byte("binary"), plaintext: []byte{0x00, 0x01, 0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := c.Encrypt(tt.aad, tt.plaintext)
			require.NoError(t, err)
			assert.Equal(t, versionMagic, packed[0])
			assert.Len(t, packed, 1+tagSize+ivSize+len(tt.plaintext))

			plain, err := c.Decrypt(tt.aad, packed)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.plaintext, plain))
		})
	}
}

func TestSymmetricDecryptWrongAAD(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	packed, err := c.Encrypt([]byte("row-a"), []byte("+44 20 7946 0000"))
	require.NoError(t, err)

	_, err = c.Decrypt([]byte("row-b"), packed)
	assert.Error(t, err)
}

func TestSymmetricDecryptMalformed(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	_, err = c.Decrypt(nil, []byte("G"))
	assert.ErrorIs(t, err, ErrShortCiphertext)

	_, err = c.Decrypt(nil, bytes.Repeat([]byte("X"), 40))
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestStringHelpersAndContext(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	ctx := WithContext(context.Background(), c)
	got, ok := FromContext(ctx)
	require.True(t, ok)

	enc, err := EncryptString(got, "id-1", "ops@example.org")
	require.NoError(t, err)
	assert.NotEqual(t, "ops@example.org", enc)

	dec, err := DecryptString(got, "id-1", enc)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.org", dec)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
