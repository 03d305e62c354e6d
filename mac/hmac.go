package mac

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// HMACSHA256TypeURL identifies 32-byte HMAC-SHA256 keys.
const HMACSHA256TypeURL = "cipherset.io/mac/hmac-sha256"

const keySize = 32

// ErrInvalidKeySize is returned when HMAC key material is not 32 bytes.
var ErrInvalidKeySize = errors.New("mac: invalid key size")

// GenerateHMACSHA256Key returns sealed material for a fresh HMAC-SHA256 key.
func GenerateHMACSHA256Key() (*keyset.KeyData, error) {
	material := make([]byte, keySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("mac: generate key: %w", err)
	}
	return keyset.NewKeyData(HMACSHA256TypeURL, material)
}

// hmacSHA256 computes full-length HMAC-SHA256 tags.
type hmacSHA256 struct {
	key []byte
}

func (h *hmacSHA256) ComputeMAC(data []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, h.key)
	mac.Write(data)
	return mac.Sum(nil), nil
}

func (h *hmacSHA256) VerifyMAC(mac, data []byte) error {
	expected, err := h.ComputeMAC(data)
	if err != nil {
		return err
	}
	if !hmac.Equal(mac, expected) {
		return cipherset.ErrInvalidMAC
	}
	return nil
}

type hmacSHA256Resolver struct{}

func (hmacSHA256Resolver) TypeURL() string {
	return HMACSHA256TypeURL
}

func (hmacSHA256Resolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	if buf.Size() != keySize {
		return cipherset.Primitive{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, buf.Size(), keySize)
	}
	key := make([]byte, keySize)
	copy(key, buf.Bytes())
	return cipherset.Primitive{Kind: cipherset.KindMAC, Value: &hmacSHA256{key: key}}, nil
}
