// Package aead provides keyset-backed authenticated encryption with
// associated data.
//
// New turns a keyset handle into a single [cipherset.AEAD]. Encryption uses
// the primary key and prepends its output prefix; decryption routes the
// ciphertext back through the prefix to the candidate keys, falling back to
// raw (prefixless) keys, so ciphertexts survive key rotation.
//
// Two key types ship with the package: AES-256-GCM and XChaCha20-Poly1305.
package aead

import (
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// New creates a keyset-backed AEAD from the handle, using the registry's
// resolvers, AEAD wrapper and monitoring client.
func New(h *keyset.Handle, r *cipherset.Registry) (cipherset.AEAD, error) {
	ps, err := cipherset.Primitives[cipherset.AEAD](h, r, cipherset.KindAEAD)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindAEAD)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*Wrapper)
	if !ok {
		return nil, fmt.Errorf("aead: registered wrapper has type %T, want %T", wk, (*Wrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

// Singletons, so that re-registration in the same registry is a no-op.
var (
	defaultWrapper        = &Wrapper{}
	aesGCMResolverSingle  = aesGCMResolver{}
	xchachaResolverSingle = xchachaResolver{}
)

// Register registers the AEAD wrapper and the AES-256-GCM and
// XChaCha20-Poly1305 key resolvers with r.
func Register(r *cipherset.Registry) error {
	if err := r.RegisterWrapper(defaultWrapper); err != nil {
		return err
	}
	if err := r.RegisterResolver(aesGCMResolverSingle); err != nil {
		return err
	}
	return r.RegisterResolver(xchachaResolverSingle)
}
