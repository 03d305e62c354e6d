// Package keyset defines keysets: ordered collections of versioned keys with
// a designated primary. A keyset is the unit of key rotation — new data is
// produced under the primary key while older keys remain available for
// decryption and verification.
//
// Key material is never held as plain bytes at rest. It is sealed into a
// [KeyData] enclave at construction and only opened into a locked buffer for
// the duration of primitive construction.
package keyset

import (
	"errors"
	"fmt"
)

// KeyStatus describes whether a key may be used.
type KeyStatus uint8

const (
	// StatusUnknown is the zero value and is never valid in a keyset.
	StatusUnknown KeyStatus = iota
	// StatusEnabled keys participate in all operations.
	StatusEnabled
	// StatusDisabled keys are kept in the keyset but excluded from use.
	// They can be re-enabled.
	StatusDisabled
	// StatusDestroyed keys have had their material dropped. The record
	// remains so the key ID is never reused.
	StatusDestroyed
)

// String returns the status name.
func (s KeyStatus) String() string {
	switch s {
	case StatusEnabled:
		return "ENABLED"
	case StatusDisabled:
		return "DISABLED"
	case StatusDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// PrefixType selects the output-prefix convention of a key: the short byte
// sequence prepended to everything the key produces so that verification and
// decryption can route inputs back to candidate keys.
type PrefixType uint8

const (
	// PrefixUnknown is the zero value and is never valid in a keyset.
	PrefixUnknown PrefixType = iota
	// PrefixRaw produces no output prefix at all.
	PrefixRaw
	// PrefixStandard prepends 0x01 followed by the big-endian key ID.
	PrefixStandard
	// PrefixLegacy prepends 0x00 followed by the big-endian key ID, and
	// additionally appends a single zero byte to the message before MACs
	// and signatures are computed.
	PrefixLegacy
	// PrefixCrunchy prepends 0x00 followed by the big-endian key ID.
	PrefixCrunchy
)

// String returns the prefix type name.
func (t PrefixType) String() string {
	switch t {
	case PrefixRaw:
		return "RAW"
	case PrefixStandard:
		return "STANDARD"
	case PrefixLegacy:
		return "LEGACY"
	case PrefixCrunchy:
		return "CRUNCHY"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors for errors.Is() checks.
var (
	// ErrEmptyKeyset is returned when a keyset contains no keys.
	ErrEmptyKeyset = errors.New("keyset: empty keyset")

	// ErrInvalidKeyset is returned when a keyset violates a structural
	// invariant (duplicate IDs, bad status or prefix type, missing material).
	ErrInvalidKeyset = errors.New("keyset: invalid keyset")

	// ErrNoSuchKey is returned when a key ID is not present in the keyset.
	ErrNoSuchKey = errors.New("keyset: no such key")

	// ErrBadPrimary is returned when the designated primary key is missing,
	// not enabled, or an operation would leave the keyset without a usable
	// primary.
	ErrBadPrimary = errors.New("keyset: invalid primary key")

	// ErrKeyMaterialUnavailable is returned when the material of a destroyed
	// key is accessed.
	ErrKeyMaterialUnavailable = errors.New("keyset: key material unavailable")
)

// Key is one versioned key record in a keyset.
type Key struct {
	// ID is the 32-bit identifier of the key, unique within its keyset.
	ID uint32
	// Status describes whether the key may be used.
	Status KeyStatus
	// Prefix is the output-prefix convention of the key.
	Prefix PrefixType
	// Data holds the sealed key material and its type URL. Nil for
	// destroyed keys.
	Data *KeyData
}

// Keyset is an ordered collection of keys with a designated primary.
// The order of Keys is preserved through primitive-set assembly.
type Keyset struct {
	// PrimaryID is the ID of the key producing new output.
	PrimaryID uint32
	// Keys holds the key records in their original order.
	Keys []Key
}

// Validate checks the structural invariants of the keyset: at least one key,
// unique IDs, known status and prefix values, material present on
// non-destroyed keys, and an enabled primary.
func (ks *Keyset) Validate() error {
	if ks == nil || len(ks.Keys) == 0 {
		return ErrEmptyKeyset
	}
	seen := make(map[uint32]bool, len(ks.Keys))
	primaryFound := false
	for _, k := range ks.Keys {
		if seen[k.ID] {
			return fmt.Errorf("%w: duplicate key ID %d", ErrInvalidKeyset, k.ID)
		}
		seen[k.ID] = true
		switch k.Status {
		case StatusEnabled, StatusDisabled, StatusDestroyed:
		default:
			return fmt.Errorf("%w: key %d has unknown status", ErrInvalidKeyset, k.ID)
		}
		switch k.Prefix {
		case PrefixRaw, PrefixStandard, PrefixLegacy, PrefixCrunchy:
		default:
			return fmt.Errorf("%w: key %d has unknown prefix type", ErrInvalidKeyset, k.ID)
		}
		if k.Status != StatusDestroyed && k.Data == nil {
			return fmt.Errorf("%w: key %d has no material", ErrInvalidKeyset, k.ID)
		}
		if k.ID == ks.PrimaryID {
			if k.Status != StatusEnabled {
				return fmt.Errorf("%w: key %d is %s", ErrBadPrimary, k.ID, k.Status)
			}
			primaryFound = true
		}
	}
	if !primaryFound {
		return fmt.Errorf("%w: key %d not in keyset", ErrBadPrimary, ks.PrimaryID)
	}
	return nil
}

// Key returns the key record with the given ID.
func (ks *Keyset) Key(id uint32) (Key, error) {
	for _, k := range ks.Keys {
		if k.ID == id {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("%w: %d", ErrNoSuchKey, id)
}
