package prf

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// HKDFSHA256TypeURL identifies 32-byte HKDF-SHA256 PRF keys.
const HKDFSHA256TypeURL = "cipherset.io/prf/hkdf-sha256"

const keySize = 32

// maxOutputLength is the HKDF expansion limit: 255 blocks of the hash size.
const maxOutputLength = 255 * sha256.Size

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidKeySize is returned when PRF key material is not 32 bytes.
	ErrInvalidKeySize = errors.New("prf: invalid key size")

	// ErrInvalidOutputLength is returned when the requested output length
	// is non-positive or beyond the HKDF expansion limit.
	ErrInvalidOutputLength = errors.New("prf: invalid output length")
)

// GenerateHKDFSHA256Key returns sealed material for a fresh HKDF-SHA256 PRF
// key.
func GenerateHKDFSHA256Key() (*keyset.KeyData, error) {
	material := make([]byte, keySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("prf: generate key: %w", err)
	}
	return keyset.NewKeyData(HKDFSHA256TypeURL, material)
}

// hkdfSHA256 evaluates HKDF-SHA256 with the key as secret and the input as
// the info parameter, which makes distinct inputs yield independent outputs
// of any requested length.
type hkdfSHA256 struct {
	key []byte
}

func (p *hkdfSHA256) ComputePRF(input []byte, outputLength int) ([]byte, error) {
	if outputLength <= 0 || outputLength > maxOutputLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutputLength, outputLength)
	}
	out := make([]byte, outputLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, p.key, nil, input), out); err != nil {
		return nil, fmt.Errorf("prf: HKDF expand: %w", err)
	}
	return out, nil
}

type hkdfSHA256Resolver struct{}

func (hkdfSHA256Resolver) TypeURL() string {
	return HKDFSHA256TypeURL
}

func (hkdfSHA256Resolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
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
	return cipherset.Primitive{Kind: cipherset.KindPRF, Value: &hkdfSHA256{key: key}}, nil
}
