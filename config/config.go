// Package config assembles ready-to-use registries.
//
// NewRegistry returns a registry with every primitive of this module wired
// in: its wrappers and the key resolvers for all supported key types.
// Callers who want a narrower surface register packages individually on a
// bare cipherset.NewRegistry().
package config

import (
	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/aead"
	"github.com/cipherset/cipherset-go/hybrid"
	"github.com/cipherset/cipherset-go/jwt"
	"github.com/cipherset/cipherset-go/mac"
	"github.com/cipherset/cipherset-go/monitoring"
	"github.com/cipherset/cipherset-go/prf"
	"github.com/cipherset/cipherset-go/signature"
)

// Option configures the registry built by NewRegistry.
type Option func(*cipherset.Registry)

// WithMonitoringClient installs a monitoring client on the registry; every
// primitive created from it then reports operations through the client.
func WithMonitoringClient(client monitoring.Client) Option {
	return func(r *cipherset.Registry) {
		r.SetMonitoringClient(client)
	}
}

// NewRegistry returns a registry with all primitives of this module
// registered.
func NewRegistry(opts ...Option) (*cipherset.Registry, error) {
	r := cipherset.NewRegistry()
	for _, register := range []func(*cipherset.Registry) error{
		aead.Register,
		mac.Register,
		signature.Register,
		hybrid.Register,
		prf.Register,
		jwt.Register,
	} {
		if err := register(r); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}
