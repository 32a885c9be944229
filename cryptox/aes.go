// Package cryptox provides password-based string encryption, password
// hashing, and small digest helpers on top of the standard crypto
// primitives.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 10_000
)

var (
	// ErrDecrypt is returned when a payload cannot be decrypted, typically
	// because the passphrase is wrong.
	ErrDecrypt = errors.New("cryptox: decryption failed")
	// ErrMalformedPayload is returned when the encoded payload is not
	// base64(salt || iv || ciphertext).
	ErrMalformedPayload = errors.New("cryptox: malformed payload")
)

// EncryptString encrypts plaintext with a key derived from the passphrase
// via PBKDF2-SHA256, using AES-256-CBC with PKCS#7 padding. The result is
// base64(salt || iv || ciphertext).
func EncryptString(passphrase, plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}
	key := deriveKey(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("cryptox: generate iv: %w", err)
	}
	padded := pad([]byte(plaintext))
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	payload := make([]byte, 0, saltSize+aes.BlockSize+len(ciphertext))
	payload = append(payload, salt...)
	payload = append(payload, iv...)
	payload = append(payload, ciphertext...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecryptString reverses EncryptString. A wrong passphrase surfaces as
// ErrDecrypt; structural problems surface as ErrMalformedPayload.
func DecryptString(passphrase, encoded string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(payload) < saltSize+aes.BlockSize {
		return "", ErrMalformedPayload
	}
	salt := payload[:saltSize]
	iv := payload[saltSize : saltSize+aes.BlockSize]
	ciphertext := payload[saltSize+aes.BlockSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedPayload
	}
	key := deriveKey(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	unpadded, ok := unpad(plaintext)
	if !ok {
		return "", ErrDecrypt
	}
	return string(unpadded), nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
}

func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
