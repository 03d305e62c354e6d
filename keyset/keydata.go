package keyset

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// KeyData pairs a type URL with sealed key material. The type URL identifies
// the algorithm family and is matched against a key resolver at assembly
// time; the material itself is opaque to everything but that resolver.
//
// Material is sealed in a memguard enclave: it lives encrypted in memory and
// is only decrypted into a locked, guarded buffer while a resolver constructs
// the primitive.
type KeyData struct {
	typeURL string
	sealed  *memguard.Enclave
}

// NewKeyData seals material under the given type URL. The material slice is
// wiped during sealing; callers must not use it afterwards.
func NewKeyData(typeURL string, material []byte) (*KeyData, error) {
	if typeURL == "" {
		return nil, fmt.Errorf("%w: empty type URL", ErrInvalidKeyset)
	}
	if len(material) == 0 {
		return nil, fmt.Errorf("%w: empty key material", ErrInvalidKeyset)
	}
	return &KeyData{
		typeURL: typeURL,
		sealed:  memguard.NewEnclave(material),
	}, nil
}

// TypeURL returns the algorithm-family identifier of the material.
func (d *KeyData) TypeURL() string {
	return d.typeURL
}

// Open decrypts the material into a locked buffer. The caller must call
// Destroy on the buffer as soon as the material has been consumed.
func (d *KeyData) Open() (*memguard.LockedBuffer, error) {
	if d == nil || d.sealed == nil {
		return nil, ErrKeyMaterialUnavailable
	}
	buf, err := d.sealed.Open()
	if err != nil {
		return nil, fmt.Errorf("keyset: open key material: %w", err)
	}
	return buf, nil
}
