// Package primitiveset holds the per-keyset collection of constructed
// primitives that wrapped primitives dispatch over.
//
// A set is built once through a Builder and frozen; after Build it is
// immutable and safe for concurrent readers. Entries are indexed two ways:
// by output prefix, for O(1) candidate lookup during decryption and
// verification, and in original keyset order, for wrappers that must try
// every key deterministically.
package primitiveset

import (
	"errors"
	"fmt"

	"github.com/cipherset/cipherset-go/internal/prefix"
	"github.com/cipherset/cipherset-go/keyset"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrNilPrimitive is returned when a nil primitive is added.
	ErrNilPrimitive = errors.New("primitiveset: nil primitive")

	// ErrKeyNotEnabled is returned when a key whose status is not ENABLED
	// is added. Disabled and destroyed keys must never reach this layer.
	ErrKeyNotEnabled = errors.New("primitiveset: key is not enabled")

	// ErrDuplicatePrimary is returned when a second entry is marked primary.
	ErrDuplicatePrimary = errors.New("primitiveset: primary already set")

	// ErrBuilderUsed is returned when a builder is used after Build.
	ErrBuilderUsed = errors.New("primitiveset: builder already consumed")
)

// Entry pairs one constructed primitive with the identifying metadata of the
// key it was built from. Entries are immutable once built.
type Entry[T any] struct {
	// KeyID is the 32-bit key identifier.
	KeyID uint32
	// Primitive is the constructed cryptographic object for this key.
	Primitive T
	// OutputPrefix is the prefix the key puts on everything it produces.
	// Empty for raw keys.
	OutputPrefix []byte
	// PrefixType is the prefix convention of the key.
	PrefixType keyset.PrefixType
	// TypeURL identifies the algorithm family of the key.
	TypeURL string
}

// Set is the frozen, queryable primitive collection for one keyset.
type Set[T any] struct {
	byPrefix    map[string][]*Entry[T]
	inOrder     []*Entry[T]
	primary     *Entry[T]
	annotations map[string]string
}

// Primary returns the primary entry, or nil if none was marked. A missing
// primary is a legitimate state: producing operations require one, verifying
// operations do not.
func (s *Set[T]) Primary() *Entry[T] {
	return s.primary
}

// EntriesForPrefix returns the entries bucketed under the exact prefix
// bytes, in keyset order among themselves. The result may be empty.
func (s *Set[T]) EntriesForPrefix(p []byte) []*Entry[T] {
	return s.byPrefix[string(p)]
}

// RawEntries returns the entries with an empty output prefix.
func (s *Set[T]) RawEntries() []*Entry[T] {
	return s.EntriesForPrefix(nil)
}

// EntriesInKeysetOrder returns every entry in original keyset key order.
func (s *Set[T]) EntriesInKeysetOrder() []*Entry[T] {
	return s.inOrder
}

// Annotations returns the monitoring annotations the set was built with, or
// nil. An empty result means wrapped primitives log to a no-op logger.
func (s *Set[T]) Annotations() map[string]string {
	return s.annotations
}

// Builder assembles a Set. It is append-only and single-use: Build freezes
// the collected entries and the builder rejects further calls.
//
// A Builder is not safe for concurrent use.
type Builder[T any] struct {
	set  *Set[T]
	done bool
}

// NewBuilder returns an empty Builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{set: &Set[T]{byPrefix: make(map[string][]*Entry[T])}}
}

// AddEntry appends one primitive with the metadata of its key. The key must
// be enabled. At most one entry may be marked primary; a second primary is
// rejected rather than silently replacing the first.
func (b *Builder[T]) AddEntry(primitive T, key keyset.Key, asPrimary bool) error {
	if b.done {
		return ErrBuilderUsed
	}
	if isNil(primitive) {
		return ErrNilPrimitive
	}
	if key.Status != keyset.StatusEnabled {
		return fmt.Errorf("%w: key %d is %s", ErrKeyNotEnabled, key.ID, key.Status)
	}
	if asPrimary && b.set.primary != nil {
		return fmt.Errorf("%w: keys %d and %d", ErrDuplicatePrimary, b.set.primary.KeyID, key.ID)
	}
	outputPrefix, err := prefix.Compute(key.Prefix, key.ID)
	if err != nil {
		return err
	}
	typeURL := ""
	if key.Data != nil {
		typeURL = key.Data.TypeURL()
	}
	e := &Entry[T]{
		KeyID:        key.ID,
		Primitive:    primitive,
		OutputPrefix: outputPrefix,
		PrefixType:   key.Prefix,
		TypeURL:      typeURL,
	}
	b.set.byPrefix[string(outputPrefix)] = append(b.set.byPrefix[string(outputPrefix)], e)
	b.set.inOrder = append(b.set.inOrder, e)
	if asPrimary {
		b.set.primary = e
	}
	return nil
}

// SetAnnotations attaches monitoring annotations to the set under
// construction.
func (b *Builder[T]) SetAnnotations(annotations map[string]string) error {
	if b.done {
		return ErrBuilderUsed
	}
	b.set.annotations = annotations
	return nil
}

// Build freezes and returns the set. The builder must not be used again.
func (b *Builder[T]) Build() (*Set[T], error) {
	if b.done {
		return nil, ErrBuilderUsed
	}
	b.done = true
	s := b.set
	b.set = nil
	return s, nil
}

// isNil reports whether the primitive, viewed as an interface value, is nil.
// Primitives are interface-typed in practice, so a plain comparison covers
// the cases that matter.
func isNil(v any) bool {
	return v == nil
}
