// Package signature provides keyset-backed digital signatures.
//
// NewSigner turns a private keyset handle into a single [cipherset.Signer]
// that signs with the primary key and prepends its output prefix.
// NewVerifier turns the corresponding public keyset handle into a
// [cipherset.Verifier] that routes a signature back through the prefix to
// the candidate keys, falling back to raw (prefixless) keys, so signatures
// survive key rotation.
//
// Keys with the legacy prefix convention sign the message plus a single
// trailing zero byte, symmetrically on sign and verify.
//
// Two schemes ship with the package: Ed25519 and ECDSA over P-256 with
// ASN.1 DER signatures.
package signature

import (
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// NewSigner creates a keyset-backed Signer from a private-key handle.
func NewSigner(h *keyset.Handle, r *cipherset.Registry) (cipherset.Signer, error) {
	ps, err := cipherset.Primitives[cipherset.Signer](h, r, cipherset.KindSigner)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindSigner)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*SignerWrapper)
	if !ok {
		return nil, fmt.Errorf("signature: registered wrapper has type %T, want %T", wk, (*SignerWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

// NewVerifier creates a keyset-backed Verifier from a public-key handle.
func NewVerifier(h *keyset.Handle, r *cipherset.Registry) (cipherset.Verifier, error) {
	ps, err := cipherset.Primitives[cipherset.Verifier](h, r, cipherset.KindVerifier)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindVerifier)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*VerifierWrapper)
	if !ok {
		return nil, fmt.Errorf("signature: registered wrapper has type %T, want %T", wk, (*VerifierWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

var (
	defaultSignerWrapper   = &SignerWrapper{}
	defaultVerifierWrapper = &VerifierWrapper{}

	ed25519SignerResolverSingle   = ed25519SignerResolver{}
	ed25519VerifierResolverSingle = ed25519VerifierResolver{}
	ecdsaSignerResolverSingle     = ecdsaSignerResolver{}
	ecdsaVerifierResolverSingle   = ecdsaVerifierResolver{}
)

// Register registers the signer and verifier wrappers and the Ed25519 and
// ECDSA-P256 key resolvers with r.
func Register(r *cipherset.Registry) error {
	if err := r.RegisterWrapper(defaultSignerWrapper); err != nil {
		return err
	}
	if err := r.RegisterWrapper(defaultVerifierWrapper); err != nil {
		return err
	}
	for _, res := range []cipherset.KeyResolver{
		ed25519SignerResolverSingle,
		ed25519VerifierResolverSingle,
		ecdsaSignerResolverSingle,
		ecdsaVerifierResolverSingle,
	} {
		if err := r.RegisterResolver(res); err != nil {
			return err
		}
	}
	return nil
}
