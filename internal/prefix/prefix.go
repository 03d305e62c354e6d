// Package prefix computes the output prefix of a key: the byte sequence
// prepended to ciphertexts, tags and signatures so that verification can
// route an input back to candidate keys without trial-decrypting the whole
// keyset.
package prefix

import (
	"encoding/binary"
	"fmt"

	"github.com/cipherset/cipherset-go/keyset"
)

const (
	// NonRawSize is the size of every non-raw output prefix: one start byte
	// followed by the 4-byte big-endian key ID. Dispatch logic relies on
	// this being a single fixed constant.
	NonRawSize = 5

	// startByteStandard opens standard prefixes.
	startByteStandard = 0x01
	// startByteLegacy opens legacy and crunchy prefixes.
	startByteLegacy = 0x00
)

// Compute returns the output prefix for a key. Raw keys have an empty
// prefix. An unknown prefix type is a contract violation: keyset validation
// rejects it before this layer, so hitting it here returns an error rather
// than a guess.
func Compute(t keyset.PrefixType, keyID uint32) ([]byte, error) {
	switch t {
	case keyset.PrefixRaw:
		return nil, nil
	case keyset.PrefixStandard:
		return compute(startByteStandard, keyID), nil
	case keyset.PrefixLegacy, keyset.PrefixCrunchy:
		return compute(startByteLegacy, keyID), nil
	default:
		return nil, fmt.Errorf("prefix: unknown prefix type %d", t)
	}
}

func compute(start byte, keyID uint32) []byte {
	p := make([]byte, NonRawSize)
	p[0] = start
	binary.BigEndian.PutUint32(p[1:], keyID)
	return p
}
