package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

const ivSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('G')

// ErrShortCiphertext is returned when a packed value cannot hold a header.
var ErrShortCiphertext = errors.New("ciphertext is too short")

// ErrUnknownVersion is returned when a packed value does not start with the version byte.
var ErrUnknownVersion = errors.New("ciphertext has unknown version")

// Cipher encrypts column values with additional authenticated data bound to the row.
type Cipher interface {
	Decrypt(aad, packedText []byte) ([]byte, error)
	Encrypt(aad, plainText []byte) ([]byte, error)
}

// Symmetric is an AES-256-GCM Cipher.
type Symmetric struct {
	aesgcm stdcipher.AEAD
}

// NewSymmetric builds a Cipher from a 16, 24 or 32 byte key.
func NewSymmetric(key []byte) (*Symmetric, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := stdcipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// NewFromBase64 decodes a standard base64 data key and builds a Cipher.
func NewFromBase64(encoded string) (*Symmetric, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return NewSymmetric(key)
}

func (s Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	if len(packedText) < 1+tagSize+ivSize {
		return nil, ErrShortCiphertext
	}
	if packedText[0] != versionMagic {
		return nil, ErrUnknownVersion
	}

	cipherText, iv := unpack(packedText)

	return s.aesgcm.Open(nil, iv, cipherText, aad)
}

func (s Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomBytes(ivSize)
	if err != nil {
		return nil, err
	}

	return s.seal(aad, plainText, nonce)
}

func (s Symmetric) seal(aad, plainText, nonce []byte) ([]byte, error) {
	if len(nonce) < ivSize {
		return nil, errors.New("nonce size is too short")
	}

	sealed := s.aesgcm.Seal(nil, nonce, plainText, aad)
	return pack(sealed, nonce), nil
}

// RandomBytes reads size bytes from crypto/rand.
func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

// pack lays out version, tag, iv and ciphertext in that order.
func pack(sealed []byte, iv []byte) []byte {
	iv = iv[:ivSize]

	tagStart := len(sealed) - tagSize
	tag := sealed[tagStart:]
	body := sealed[:tagStart]

	data := make([]byte, 1+tagSize+ivSize+len(body))
	data[0] = versionMagic
	index := 1

	copy(data[index:], tag)
	index += tagSize

	copy(data[index:], iv)
	index += ivSize

	copy(data[index:], body)

	return data
}

func unpack(packedText []byte) ([]byte, []byte) {
	index := 1

	tag := packedText[index : index+tagSize]
	index += tagSize

	iv := packedText[index : index+ivSize]
	index += ivSize

	sealed := make([]byte, 0, len(packedText)-index+tagSize)
	sealed = append(sealed, packedText[index:]...)
	sealed = append(sealed, tag...)

	return sealed, iv
}
