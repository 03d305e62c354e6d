// Package mac provides keyset-backed message authentication codes.
//
// New turns a keyset handle into a single [cipherset.MAC]. ComputeMAC uses
// the primary key and prepends its output prefix to the tag; VerifyMAC
// routes the tag back through the prefix to the candidate keys, falling back
// to raw (prefixless) keys, so tags survive key rotation.
//
// Keys with the legacy prefix convention authenticate the message plus a
// single trailing zero byte. The transform is applied symmetrically on
// compute and verify and only for the legacy key being tried.
package mac

import (
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// New creates a keyset-backed MAC from the handle, using the registry's
// resolvers, MAC wrapper and monitoring client.
func New(h *keyset.Handle, r *cipherset.Registry) (cipherset.MAC, error) {
	ps, err := cipherset.Primitives[cipherset.MAC](h, r, cipherset.KindMAC)
	if err != nil {
		return nil, err
	}
	wk, err := r.WrapperFor(cipherset.KindMAC)
	if err != nil {
		return nil, err
	}
	w, ok := wk.(*Wrapper)
	if !ok {
		return nil, fmt.Errorf("mac: registered wrapper has type %T, want %T", wk, (*Wrapper)(nil))
	}
	return w.Wrap(ps, r.MonitoringClient())
}

var (
	defaultWrapper     = &Wrapper{}
	hmacResolverSingle = hmacSHA256Resolver{}
)

// Register registers the MAC wrapper and the HMAC-SHA256 key resolver with r.
func Register(r *cipherset.Registry) error {
	if err := r.RegisterWrapper(defaultWrapper); err != nil {
		return err
	}
	return r.RegisterResolver(hmacResolverSingle)
}
