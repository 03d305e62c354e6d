package config

import (
	"testing"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/aead"
	"github.com/cipherset/cipherset-go/hybrid"
	"github.com/cipherset/cipherset-go/jwt"
	"github.com/cipherset/cipherset-go/mac"
	"github.com/cipherset/cipherset-go/monitoring"
	"github.com/cipherset/cipherset-go/prf"
	"github.com/cipherset/cipherset-go/signature"
)

func TestNewRegistryHasEverything(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	kinds := []cipherset.Kind{
		cipherset.KindAEAD,
		cipherset.KindMAC,
		cipherset.KindSigner,
		cipherset.KindVerifier,
		cipherset.KindHybridEncrypt,
		cipherset.KindHybridDecrypt,
		cipherset.KindPRF,
		cipherset.KindJWTMAC,
		cipherset.KindJWTSigner,
		cipherset.KindJWTVerifier,
	}
	for _, k := range kinds {
		if _, err := r.WrapperFor(k); err != nil {
			t.Errorf("WrapperFor(%v) error = %v", k, err)
		}
	}

	typeURLs := []string{
		aead.AES256GCMTypeURL,
		aead.XChaCha20Poly1305TypeURL,
		mac.HMACSHA256TypeURL,
		signature.Ed25519PrivateTypeURL,
		signature.Ed25519PublicTypeURL,
		signature.ECDSAP256PrivateTypeURL,
		signature.ECDSAP256PublicTypeURL,
		hybrid.HPKEPrivateTypeURL,
		hybrid.HPKEPublicTypeURL,
		prf.HKDFSHA256TypeURL,
		jwt.HS256TypeURL,
		jwt.ES256PrivateTypeURL,
		jwt.ES256PublicTypeURL,
	}
	for _, url := range typeURLs {
		if _, err := r.ResolverFor(url); err != nil {
			t.Errorf("ResolverFor(%q) error = %v", url, err)
		}
	}
}

func TestRegistrationIsIdempotent(t *testing.T) {
	// Package registration uses singleton wrappers and resolvers, so wiring
	// the same package into a registry twice is a no-op, not a conflict.
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	for _, register := range map[string]func(*cipherset.Registry) error{
		"aead":      aead.Register,
		"mac":       mac.Register,
		"signature": signature.Register,
		"hybrid":    hybrid.Register,
		"prf":       prf.Register,
		"jwt":       jwt.Register,
	} {
		if err := register(r); err != nil {
			t.Errorf("re-registration error = %v", err)
		}
	}
}

func TestWithMonitoringClient(t *testing.T) {
	meter, err := monitoring.NewMeter()
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	r, err := NewRegistry(WithMonitoringClient(meter))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if r.MonitoringClient() != monitoring.Client(meter) {
		t.Error("MonitoringClient() is not the configured meter")
	}
}
