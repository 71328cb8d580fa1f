// Package crypto encrypts values persisted outside the process, such as
// cached OAuth access tokens, with AES-256-GCM.
//
// The key is derived from CONFIG_ENCRYPTION_KEY with PBKDF2 so any passphrase
// length is accepted. Each call to Encrypt uses a fresh random nonce.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"esign-adapter/internal/common/errors"
)

const (
	keySalt       = "esign-adapter-salt"
	keyIterations = 10000
	keyLength     = 32
)

// ConfigEncryptor is safe for concurrent use.
type ConfigEncryptor struct {
	aead cipher.AEAD
}

// NewConfigEncryptor derives an AES-256 key from key. The key must not be empty.
func NewConfigEncryptor(key string) (*ConfigEncryptor, error) {
	if key == "" {
		return nil, errors.ValidationError("encryption key cannot be empty")
	}

	derivedKey := pbkdf2.Key([]byte(key), []byte(keySalt), keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, errors.InternalError("failed to create cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.InternalError("failed to create GCM", err)
	}

	return &ConfigEncryptor{aead: gcm}, nil
}

// Encrypt returns base64(nonce || ciphertext). An empty plaintext encrypts to "".
func (e *ConfigEncryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.InternalError("failed to create nonce", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered input or a different key fails authentication.
func (e *ConfigEncryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.ValidationError("ciphertext is not valid base64").WithContext("cause", err.Error())
	}

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.ValidationError("ciphertext too short")
	}

	plaintext, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", errors.InternalError("failed to decrypt", err)
	}
	return string(plaintext), nil
}

// EncryptJSON marshals v and encrypts the result
func (e *ConfigEncryptor) EncryptJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.InternalError("failed to marshal JSON", err)
	}
	return e.Encrypt(string(data))
}

// DecryptJSON decrypts ciphertext and unmarshals it into v
func (e *ConfigEncryptor) DecryptJSON(ciphertext string, v interface{}) error {
	plaintext, err := e.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(plaintext), v); err != nil {
		return errors.InternalError("failed to unmarshal JSON", err)
	}
	return nil
}
