// Package prf provides keyset-backed pseudorandom functions.
//
// Unlike the other primitives, PRFs have no output to prefix: callers get a
// [Set] exposing every key's PRF by ID plus the primary, and redact or
// rotate by switching which key they evaluate. All PRF keys must use the raw
// prefix convention — an output prefix on a PRF would silently change the
// function being computed.
package prf

import (
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/keyset"
)

// Set is the keyset-backed PRF collection.
type Set struct {
	// PrimaryID is the key ID of the primary PRF.
	PrimaryID uint32
	// PRFs maps every key ID in the keyset to its PRF.
	PRFs map[uint32]cipherset.PRF
}

// New creates a PRF Set from the handle, using the registry's resolvers and
// PRF wrapper.
func New(h *keyset.Handle, r *cipherset.Registry) (*Set, error) {
	ps, err := cipherset.Primitives[cipherset.PRF](h, r, cipherset.KindPRF)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindPRF)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*Wrapper)
	if !ok {
		return nil, fmt.Errorf("prf: registered wrapper has type %T, want %T", wk, (*Wrapper)(nil))
	}
	return w.Wrap(ps)
}

// ComputePrimaryPRF evaluates the primary key's PRF.
func (s *Set) ComputePrimaryPRF(input []byte, outputLength int) ([]byte, error) {
	p, ok := s.PRFs[s.PrimaryID]
	if !ok {
		return nil, cipherset.ErrNoPrimary
	}
	return p.ComputePRF(input, outputLength)
}

// Wrapper converts a PRF primitive set into a Set.
type Wrapper struct{}

// Kind returns cipherset.KindPRF.
func (*Wrapper) Kind() cipherset.Kind {
	return cipherset.KindPRF
}

// Wrap wraps the set. Every key must use the raw prefix convention and a
// primary must be present.
func (*Wrapper) Wrap(set *primitiveset.Set[cipherset.PRF]) (*Set, error) {
	primary := set.Primary()
	if primary == nil {
		return nil, cipherset.ErrNoPrimary
	}
	prfs := make(map[uint32]cipherset.PRF)
	for _, e := range set.EntriesInKeysetOrder() {
		if e.PrefixType != keyset.PrefixRaw {
			return nil, fmt.Errorf("prf: key %d has prefix type %s, PRF keys must be RAW", e.KeyID, e.PrefixType)
		}
		prfs[e.KeyID] = e.Primitive
	}
	return &Set{PrimaryID: primary.KeyID, PRFs: prfs}, nil
}

var (
	defaultWrapper     = &Wrapper{}
	hkdfResolverSingle = hkdfSHA256Resolver{}
)

// Register registers the PRF wrapper and the HKDF-SHA256 key resolver with r.
func Register(r *cipherset.Registry) error {
	if err := r.RegisterWrapper(defaultWrapper); err != nil {
		return err
	}
	return r.RegisterResolver(hkdfResolverSingle)
}
