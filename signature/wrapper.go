package signature

import (
	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/prefix"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/keyset"
	"github.com/cipherset/cipherset-go/monitoring"
)

// SignerWrapper converts a Signer primitive set into a single
// cipherset.Signer.
type SignerWrapper struct{}

// Kind returns cipherset.KindSigner.
func (*SignerWrapper) Kind() cipherset.Kind {
	return cipherset.KindSigner
}

// Wrap wraps the set. Sign fails with cipherset.ErrNoPrimary if the set has
// no primary.
func (*SignerWrapper) Wrap(set *primitiveset.Set[cipherset.Signer], client monitoring.Client) (cipherset.Signer, error) {
	logger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "public_key_sign",
		APIFunction: "sign",
		KeysetInfo:  cipherset.MonitoringKeysetInfo(set),
	})
	if err != nil {
		return nil, err
	}
	return &wrappedSigner{set: set, logger: logger}, nil
}

type wrappedSigner struct {
	set    *primitiveset.Set[cipherset.Signer]
	logger monitoring.Logger
}

// Compile-time interface check.
var _ cipherset.Signer = (*wrappedSigner)(nil)

// Sign signs data with the primary key and returns the primary's output
// prefix followed by the signature.
func (s *wrappedSigner) Sign(data []byte) ([]byte, error) {
	primary := s.set.Primary()
	if primary == nil {
		return nil, cipherset.ErrNoPrimary
	}
	signed := data
	if primary.PrefixType == keyset.PrefixLegacy {
		signed = appendZeroByte(data)
	}
	sig, err := primary.Primitive.Sign(signed)
	if err != nil {
		s.logger.LogFailure()
		return nil, err
	}
	s.logger.Log(primary.KeyID, len(signed))
	if len(primary.OutputPrefix) == 0 {
		return sig, nil
	}
	out := make([]byte, 0, len(primary.OutputPrefix)+len(sig))
	out = append(out, primary.OutputPrefix...)
	return append(out, sig...), nil
}

// VerifierWrapper converts a Verifier primitive set into a single
// cipherset.Verifier.
type VerifierWrapper struct{}

// Kind returns cipherset.KindVerifier.
func (*VerifierWrapper) Kind() cipherset.Kind {
	return cipherset.KindVerifier
}

// Wrap wraps the set. Verification needs no primary.
func (*VerifierWrapper) Wrap(set *primitiveset.Set[cipherset.Verifier], client monitoring.Client) (cipherset.Verifier, error) {
	logger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "public_key_verify",
		APIFunction: "verify",
		KeysetInfo:  cipherset.MonitoringKeysetInfo(set),
	})
	if err != nil {
		return nil, err
	}
	return &wrappedVerifier{set: set, logger: logger}, nil
}

type wrappedVerifier struct {
	set    *primitiveset.Set[cipherset.Verifier]
	logger monitoring.Logger
}

// Compile-time interface check.
var _ cipherset.Verifier = (*wrappedVerifier)(nil)

// Verify tries the keys whose output prefix opens the signature, in keyset
// order, then every raw key over the whole signature. Per-key failures are
// swallowed; if nothing verifies the error is the generic
// cipherset.ErrInvalidSignature.
func (v *wrappedVerifier) Verify(signature, data []byte) error {
	if len(signature) > prefix.NonRawSize {
		candidate := signature[:prefix.NonRawSize]
		sig := signature[prefix.NonRawSize:]
		for _, e := range v.set.EntriesForPrefix(candidate) {
			d := data
			if e.PrefixType == keyset.PrefixLegacy {
				d = appendZeroByte(data)
			}
			if err := e.Primitive.Verify(sig, d); err == nil {
				v.logger.Log(e.KeyID, len(d))
				return nil
			}
		}
	}

	for _, e := range v.set.RawEntries() {
		if err := e.Primitive.Verify(signature, data); err == nil {
			v.logger.Log(e.KeyID, len(data))
			return nil
		}
	}

	v.logger.LogFailure()
	return cipherset.ErrInvalidSignature
}

// appendZeroByte returns data plus a trailing zero byte without mutating the
// caller's slice.
func appendZeroByte(data []byte) []byte {
	out := make([]byte, 0, len(data)+1)
	out = append(out, data...)
	return append(out, 0)
}
