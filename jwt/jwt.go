// Package jwt provides keyset-backed JSON Web Tokens.
//
// Tokens carry key identity in the kid header rather than in output bytes,
// so JWT keysets accept only the raw and standard prefix conventions: a
// standard-prefix key binds a kid derived from its key ID, a raw key binds
// none. Verification tries every key of the set in keyset order; when no key
// accepts the token the error is the generic [ErrVerificationFailed], except
// that a content-validation failure (expired token, wrong issuer) seen along
// the way is preferred, since it means some key did verify the token.
package jwt

import (
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// MAC computes and verifies symmetrically authenticated tokens.
type MAC interface {
	// ComputeMACAndEncode returns a compact token over claims authenticated
	// with the primary key.
	ComputeMACAndEncode(claims *Claims) (string, error)
	// VerifyMACAndDecode verifies a compact token against the keyset and
	// returns its claims. A nil Validator applies only the default time
	// checks.
	VerifyMACAndDecode(compact string, v *Validator) (*Claims, error)
}

// Signer creates signed tokens.
type Signer interface {
	// SignAndEncode returns a compact token over claims signed with the
	// primary key.
	SignAndEncode(claims *Claims) (string, error)
}

// Verifier verifies signed tokens.
type Verifier interface {
	// VerifyAndDecode verifies a signed compact token against the keyset and
	// returns its claims. A nil Validator applies only the default time
	// checks.
	VerifyAndDecode(compact string, v *Validator) (*Claims, error)
}

// NewMAC creates a keyset-backed JWT MAC from the handle, using the
// registry's resolvers, wrapper and monitoring client.
func NewMAC(h *keyset.Handle, r *cipherset.Registry) (MAC, error) {
	ps, err := cipherset.Primitives[macPrimitive](h, r, cipherset.KindJWTMAC)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindJWTMAC)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*MACWrapper)
	if !ok {
		return nil, fmt.Errorf("jwt: registered wrapper has type %T, want %T", wk, (*MACWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

// NewSigner creates a keyset-backed JWT signer from the handle, using the
// registry's resolvers, wrapper and monitoring client.
func NewSigner(h *keyset.Handle, r *cipherset.Registry) (Signer, error) {
	ps, err := cipherset.Primitives[signerPrimitive](h, r, cipherset.KindJWTSigner)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindJWTSigner)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*SignerWrapper)
	if !ok {
		return nil, fmt.Errorf("jwt: registered wrapper has type %T, want %T", wk, (*SignerWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

// NewVerifier creates a keyset-backed JWT verifier from the handle, using
// the registry's resolvers, wrapper and monitoring client.
func NewVerifier(h *keyset.Handle, r *cipherset.Registry) (Verifier, error) {
	ps, err := cipherset.Primitives[verifierPrimitive](h, r, cipherset.KindJWTVerifier)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindJWTVerifier)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*VerifierWrapper)
	if !ok {
		return nil, fmt.Errorf("jwt: registered wrapper has type %T, want %T", wk, (*VerifierWrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

var (
	defaultMACWrapper      = &MACWrapper{}
	defaultSignerWrapper   = &SignerWrapper{}
	defaultVerifierWrapper = &VerifierWrapper{}
	hs256ResolverSingle    = hs256Resolver{}
	es256PrivateSingle     = es256PrivateResolver{}
	es256PublicSingle      = es256PublicResolver{}
)

// Register registers the JWT wrappers and the HS256 and ES256 key resolvers
// with r.
func Register(r *cipherset.Registry) error {
	for _, w := range []cipherset.WrapperKind{defaultMACWrapper, defaultSignerWrapper, defaultVerifierWrapper} {
		if err := r.RegisterWrapper(w); err != nil {
			return err
		}
	}
	for _, res := range []cipherset.KeyResolver{hs256ResolverSingle, es256PrivateSingle, es256PublicSingle} {
		if err := r.RegisterResolver(res); err != nil {
			return err
		}
	}
	return nil
}
