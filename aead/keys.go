package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// Type URLs of the AEAD key types in this package.
const (
	// AES256GCMTypeURL identifies 32-byte AES-256-GCM keys.
	AES256GCMTypeURL = "cipherset.io/aead/aes256-gcm"
	// XChaCha20Poly1305TypeURL identifies 32-byte XChaCha20-Poly1305 keys.
	XChaCha20Poly1305TypeURL = "cipherset.io/aead/xchacha20-poly1305"
)

const keySize = 32

// ErrInvalidKeySize is returned when AEAD key material is not 32 bytes.
var ErrInvalidKeySize = errors.New("aead: invalid key size")

// GenerateAES256GCMKey returns sealed material for a fresh AES-256-GCM key.
func GenerateAES256GCMKey() (*keyset.KeyData, error) {
	return generateKey(AES256GCMTypeURL)
}

// GenerateXChaCha20Poly1305Key returns sealed material for a fresh
// XChaCha20-Poly1305 key.
func GenerateXChaCha20Poly1305Key() (*keyset.KeyData, error) {
	return generateKey(XChaCha20Poly1305TypeURL)
}

func generateKey(typeURL string) (*keyset.KeyData, error) {
	material := make([]byte, keySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("aead: generate key: %w", err)
	}
	return keyset.NewKeyData(typeURL, material)
}

// aeadCipher implements cipherset.AEAD over any cipher.AEAD using the
// wire format: nonce || ciphertext || tag, with a fresh random nonce per
// encryption.
type aeadCipher struct {
	aead cipher.AEAD
}

func (c *aeadCipher) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	out := make([]byte, nonceSize, nonceSize+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("aead: generate nonce: %w", err)
	}
	return c.aead.Seal(out, out[:nonceSize], plaintext, associatedData), nil
}

func (c *aeadCipher) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(ciphertext) < nonceSize+c.aead.Overhead() {
		return nil, cipherset.ErrDecryptionFailed
	}
	pt, err := c.aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], associatedData)
	if err != nil {
		return nil, cipherset.ErrDecryptionFailed
	}
	return pt, nil
}

type aesGCMResolver struct{}

func (aesGCMResolver) TypeURL() string {
	return AES256GCMTypeURL
}

func (aesGCMResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	if buf.Size() != keySize {
		return cipherset.Primitive{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, buf.Size(), keySize)
	}
	block, err := aes.NewCipher(buf.Bytes())
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("aead: create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("aead: create GCM: %w", err)
	}
	return cipherset.Primitive{Kind: cipherset.KindAEAD, Value: &aeadCipher{aead: gcm}}, nil
}

type xchachaResolver struct{}

func (xchachaResolver) TypeURL() string {
	return XChaCha20Poly1305TypeURL
}

func (xchachaResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	if buf.Size() != chacha20poly1305.KeySize {
		return cipherset.Primitive{}, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidKeySize, buf.Size(), chacha20poly1305.KeySize)
	}
	aead, err := chacha20poly1305.NewX(buf.Bytes())
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("aead: create XChaCha20-Poly1305: %w", err)
	}
	return cipherset.Primitive{Kind: cipherset.KindAEAD, Value: &aeadCipher{aead: aead}}, nil
}
