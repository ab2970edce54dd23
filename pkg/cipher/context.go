package cipher

import (
	"context"
	"encoding/base64"
)

type contextKey struct{}

// WithContext attaches c to ctx so GORM hooks can find it through tx.Statement.Context.
func WithContext(ctx context.Context, c Cipher) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the Cipher attached to ctx, if any.
func FromContext(ctx context.Context) (Cipher, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(contextKey{}).(Cipher)
	return c, ok && c != nil
}

// EncryptString encrypts plain and returns it base64 encoded for text columns.
func EncryptString(c Cipher, aad, plain string) (string, error) {
	packed, err := c.Encrypt([]byte(aad), []byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

// DecryptString reverses EncryptString.
func DecryptString(c Cipher, aad, encoded string) (string, error) {
	packed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	plain, err := c.Decrypt([]byte(aad), packed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
