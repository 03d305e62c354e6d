package jwt

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/keyset"
	"github.com/cipherset/cipherset-go/monitoring"
)

// keyIDToKid derives the kid header value bound to a standard-prefix key:
// the unpadded base64url encoding of the big-endian key ID.
func keyIDToKid(keyID uint32) string {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], keyID)
	return base64.RawURLEncoding.EncodeToString(raw[:])
}

// entryKid returns the kid bound to an entry: nil for raw keys, the key-ID
// derived kid for standard keys. Other prefix conventions have no place in a
// JWT keyset because tokens carry key identity in the header, not in output
// bytes.
func entryKid[T any](e *primitiveset.Entry[T]) (*string, error) {
	switch e.PrefixType {
	case keyset.PrefixRaw:
		return nil, nil
	case keyset.PrefixStandard:
		kid := keyIDToKid(e.KeyID)
		return &kid, nil
	default:
		return nil, fmt.Errorf("%w: key %d has prefix type %s", ErrUnsupportedPrefix, e.KeyID, e.PrefixType)
	}
}

// checkPrefixTypes rejects sets containing keys with prefix conventions that
// JWTs cannot express.
func checkPrefixTypes[T any](set *primitiveset.Set[T]) error {
	for _, e := range set.EntriesInKeysetOrder() {
		if _, err := entryKid(e); err != nil {
			return err
		}
	}
	return nil
}

// verifyLoop tries every entry of the set in keyset order and returns the
// claims from the first key that verifies. Signature and header failures are
// swallowed; content-validation failures (expired, wrong issuer) are
// remembered, and the last one seen is preferred over the generic failure so
// the caller learns that some key did verify the token.
func verifyLoop[T any](set *primitiveset.Set[T], logger monitoring.Logger, compact string, v *Validator,
	verify func(p T, kid *string) (*Claims, error)) (*Claims, error) {

	var lastValidation *ValidationError
	for _, e := range set.EntriesInKeysetOrder() {
		kid, err := entryKid(e)
		if err != nil {
			continue
		}
		claims, err := verify(e.Primitive, kid)
		if err == nil {
			logger.Log(e.KeyID, len(compact))
			return claims, nil
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			lastValidation = ve
		}
	}
	logger.LogFailure()
	if lastValidation != nil {
		return nil, lastValidation
	}
	return nil, ErrVerificationFailed
}

// MACWrapper converts a JWT MAC primitive set into a single MAC.
type MACWrapper struct{}

// Kind returns cipherset.KindJWTMAC.
func (*MACWrapper) Kind() cipherset.Kind {
	return cipherset.KindJWTMAC
}

// Wrap wraps the set. Every key must use the raw or standard prefix
// convention.
func (*MACWrapper) Wrap(set *primitiveset.Set[macPrimitive], client monitoring.Client) (MAC, error) {
	if err := checkPrefixTypes(set); err != nil {
		return nil, err
	}
	info := cipherset.MonitoringKeysetInfo(set)
	computeLogger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "jwt_mac",
		APIFunction: "compute",
		KeysetInfo:  info,
	})
	if err != nil {
		return nil, err
	}
	verifyLogger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "jwt_mac",
		APIFunction: "verify",
		KeysetInfo:  info,
	})
	if err != nil {
		return nil, err
	}
	return &wrappedMAC{set: set, computeLogger: computeLogger, verifyLogger: verifyLogger}, nil
}

type wrappedMAC struct {
	set           *primitiveset.Set[macPrimitive]
	computeLogger monitoring.Logger
	verifyLogger  monitoring.Logger
}

// Compile-time interface check.
var _ MAC = (*wrappedMAC)(nil)

// ComputeMACAndEncode creates a compact token over claims with the primary
// key, binding the primary's kid when it has one.
func (m *wrappedMAC) ComputeMACAndEncode(claims *Claims) (string, error) {
	primary := m.set.Primary()
	if primary == nil {
		return "", cipherset.ErrNoPrimary
	}
	kid, err := entryKid(primary)
	if err != nil {
		return "", err
	}
	compact, err := primary.Primitive.computeAndEncode(claims, kid)
	if err != nil {
		m.computeLogger.LogFailure()
		return "", err
	}
	m.computeLogger.Log(primary.KeyID, len(compact))
	return compact, nil
}

// VerifyMACAndDecode verifies a compact token against the keys of the set
// and returns its claims.
func (m *wrappedMAC) VerifyMACAndDecode(compact string, v *Validator) (*Claims, error) {
	return verifyLoop(m.set, m.verifyLogger, compact, v, func(p macPrimitive, kid *string) (*Claims, error) {
		return p.verifyAndDecode(compact, v, kid)
	})
}

// SignerWrapper converts a JWT signer primitive set into a single Signer.
type SignerWrapper struct{}

// Kind returns cipherset.KindJWTSigner.
func (*SignerWrapper) Kind() cipherset.Kind {
	return cipherset.KindJWTSigner
}

// Wrap wraps the set. Every key must use the raw or standard prefix
// convention.
func (*SignerWrapper) Wrap(set *primitiveset.Set[signerPrimitive], client monitoring.Client) (Signer, error) {
	if err := checkPrefixTypes(set); err != nil {
		return nil, err
	}
	logger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "jwt_sign",
		APIFunction: "sign",
		KeysetInfo:  cipherset.MonitoringKeysetInfo(set),
	})
	if err != nil {
		return nil, err
	}
	return &wrappedSigner{set: set, logger: logger}, nil
}

type wrappedSigner struct {
	set    *primitiveset.Set[signerPrimitive]
	logger monitoring.Logger
}

// Compile-time interface check.
var _ Signer = (*wrappedSigner)(nil)

// SignAndEncode creates a signed compact token over claims with the primary
// key, binding the primary's kid when it has one.
func (s *wrappedSigner) SignAndEncode(claims *Claims) (string, error) {
	primary := s.set.Primary()
	if primary == nil {
		return "", cipherset.ErrNoPrimary
	}
	kid, err := entryKid(primary)
	if err != nil {
		return "", err
	}
	compact, err := primary.Primitive.signAndEncode(claims, kid)
	if err != nil {
		s.logger.LogFailure()
		return "", err
	}
	s.logger.Log(primary.KeyID, len(compact))
	return compact, nil
}

// VerifierWrapper converts a JWT verifier primitive set into a single
// Verifier.
type VerifierWrapper struct{}

// Kind returns cipherset.KindJWTVerifier.
func (*VerifierWrapper) Kind() cipherset.Kind {
	return cipherset.KindJWTVerifier
}

// Wrap wraps the set. Every key must use the raw or standard prefix
// convention. The set may lack a primary; verification tries every key.
func (*VerifierWrapper) Wrap(set *primitiveset.Set[verifierPrimitive], client monitoring.Client) (Verifier, error) {
	if err := checkPrefixTypes(set); err != nil {
		return nil, err
	}
	logger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "jwt_verify",
		APIFunction: "verify",
		KeysetInfo:  cipherset.MonitoringKeysetInfo(set),
	})
	if err != nil {
		return nil, err
	}
	return &wrappedVerifier{set: set, logger: logger}, nil
}

type wrappedVerifier struct {
	set    *primitiveset.Set[verifierPrimitive]
	logger monitoring.Logger
}

// Compile-time interface check.
var _ Verifier = (*wrappedVerifier)(nil)

// VerifyAndDecode verifies a signed compact token against the keys of the
// set and returns its claims.
func (w *wrappedVerifier) VerifyAndDecode(compact string, v *Validator) (*Claims, error) {
	return verifyLoop(w.set, w.logger, compact, v, func(p verifierPrimitive, kid *string) (*Claims, error) {
		return p.verifyAndDecode(compact, v, kid)
	})
}
