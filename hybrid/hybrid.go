// Package hybrid provides keyset-backed hybrid (public-key) encryption.
//
// NewEncrypt turns a public keyset handle into a single
// [cipherset.HybridEncrypt]; NewDecrypt turns the corresponding private
// handle into a [cipherset.HybridDecrypt]. Encryption uses the primary key
// and prepends its output prefix; decryption routes the ciphertext back
// through the prefix to the candidate keys, falling back to raw keys.
//
// The contextInfo parameter binds caller context to the ciphertext; it is
// authenticated but not encrypted and decryption requires the same value.
//
// The shipped scheme is HPKE (RFC 9180) with X25519-HKDF-SHA256,
// HKDF-SHA256 and AES-256-GCM.
//
// An AEAD key can never be assembled into a hybrid primitive, even though
// the two interfaces have the same shape: every resolved primitive carries a
// capability tag and assembly requires the exact hybrid capability.
package hybrid

import (
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// NewEncrypt creates a keyset-backed HybridEncrypt from a public-key handle.
func NewEncrypt(h *keyset.Handle, r *cipherset.Registry) (cipherset.HybridEncrypt, error) {
	ps, err := cipherset.Primitives[cipherset.HybridEncrypt](h, r, cipherset.KindHybridEncrypt)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindHybridEncrypt)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*EncryptWrapper)
	if !ok {
		return nil, fmt.Errorf("hybrid: registered wrapper has type %T, want %T", wk, (*EncryptWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

// NewDecrypt creates a keyset-backed HybridDecrypt from a private-key handle.
func NewDecrypt(h *keyset.Handle, r *cipherset.Registry) (cipherset.HybridDecrypt, error) {
	ps, err := cipherset.Primitives[cipherset.HybridDecrypt](h, r, cipherset.KindHybridDecrypt)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindHybridDecrypt)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*DecryptWrapper)
	if !ok {
		return nil, fmt.Errorf("hybrid: registered wrapper has type %T, want %T", wk, (*DecryptWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

var (
	defaultEncryptWrapper = &EncryptWrapper{}
	defaultDecryptWrapper = &DecryptWrapper{}

	hpkePublicResolverSingle  = hpkePublicResolver{}
	hpkePrivateResolverSingle = hpkePrivateResolver{}
)

// Register registers the hybrid wrappers and the HPKE key resolvers with r.
func Register(r *cipherset.Registry) error {
	if err := r.RegisterWrapper(defaultEncryptWrapper); err != nil {
		return err
	}
	if err := r.RegisterWrapper(defaultDecryptWrapper); err != nil {
		return err
	}
	if err := r.RegisterResolver(hpkePublicResolverSingle); err != nil {
		return err
	}
	return r.RegisterResolver(hpkePrivateResolverSingle)
}
