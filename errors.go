package cipherset

import (
	"errors"

	"github.com/cipherset/cipherset-go/internal/primitiveset"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrNoPrimary is returned when a producing operation (encrypt, compute,
	// sign) is invoked on a keyset with no primary key.
	ErrNoPrimary = errors.New("cipherset: keyset has no primary key")

	// ErrKindMismatch is returned when a key resolves to a primitive of a
	// different capability than the one being assembled, e.g. an AEAD key
	// inside a keyset wrapped for hybrid encryption.
	ErrKindMismatch = errors.New("cipherset: primitive kind mismatch")

	// ErrDecryptionFailed is returned when no key of the set decrypts a
	// ciphertext. It deliberately carries no detail about which keys were
	// tried or why each attempt failed.
	ErrDecryptionFailed = errors.New("cipherset: decryption failed")

	// ErrInvalidMAC is returned when no key of the set verifies a tag.
	ErrInvalidMAC = errors.New("cipherset: invalid MAC")

	// ErrInvalidSignature is returned when no key of the set verifies a
	// signature.
	ErrInvalidSignature = errors.New("cipherset: invalid signature")

	// ErrAlreadyRegistered is returned when a conflicting resolver or
	// wrapper is registered for an occupied slot. Re-registering the
	// identical instance is allowed.
	ErrAlreadyRegistered = errors.New("cipherset: already registered")

	// ErrNotRegistered is returned when no resolver serves a type URL or no
	// wrapper serves a primitive kind.
	ErrNotRegistered = errors.New("cipherset: not registered")
)

// Builder contract violations, surfaced from primitive-set assembly.
var (
	// ErrDuplicatePrimary is returned when a second key is marked primary
	// while building a primitive set.
	ErrDuplicatePrimary = primitiveset.ErrDuplicatePrimary

	// ErrBuilderUsed is returned when a primitive-set builder is reused
	// after Build.
	ErrBuilderUsed = primitiveset.ErrBuilderUsed
)
