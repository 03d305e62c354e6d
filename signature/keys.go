package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// Type URLs of the signature key types in this package. Private and public
// halves are distinct key types: the private resolves to a Signer, the
// public to a Verifier.
const (
	// Ed25519PrivateTypeURL identifies 32-byte Ed25519 seeds.
	Ed25519PrivateTypeURL = "cipherset.io/signature/ed25519.private"
	// Ed25519PublicTypeURL identifies 32-byte Ed25519 public keys.
	Ed25519PublicTypeURL = "cipherset.io/signature/ed25519.public"
	// ECDSAP256PrivateTypeURL identifies SEC1 ASN.1 DER P-256 private keys.
	ECDSAP256PrivateTypeURL = "cipherset.io/signature/ecdsa-p256.private"
	// ECDSAP256PublicTypeURL identifies PKIX DER P-256 public keys.
	ECDSAP256PublicTypeURL = "cipherset.io/signature/ecdsa-p256.public"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidKeySize is returned when Ed25519 key material has the wrong
	// length.
	ErrInvalidKeySize = errors.New("signature: invalid key size")

	// ErrInvalidKey is returned when key material cannot be parsed or is on
	// an unexpected curve.
	ErrInvalidKey = errors.New("signature: invalid key material")
)

// GenerateEd25519KeyPair returns sealed material for a fresh Ed25519 key
// pair: the private seed and the public key, as two key datas to be placed
// in the private and public keysets respectively.
func GenerateEd25519KeyPair() (private, public *keyset.KeyData, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("signature: generate Ed25519 key: %w", err)
	}
	private, err = keyset.NewKeyData(Ed25519PrivateTypeURL, priv.Seed())
	if err != nil {
		return nil, nil, err
	}
	public, err = keyset.NewKeyData(Ed25519PublicTypeURL, pub)
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}

// GenerateECDSAP256KeyPair returns sealed material for a fresh ECDSA P-256
// key pair in DER encoding (SEC1 for the private key, PKIX for the public).
func GenerateECDSAP256KeyPair() (private, public *keyset.KeyData, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("signature: generate ECDSA key: %w", err)
	}
	privDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("signature: marshal ECDSA private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("signature: marshal ECDSA public key: %w", err)
	}
	private, err = keyset.NewKeyData(ECDSAP256PrivateTypeURL, privDER)
	if err != nil {
		return nil, nil, err
	}
	public, err = keyset.NewKeyData(ECDSAP256PublicTypeURL, pubDER)
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}

type ed25519Signer struct {
	key ed25519.PrivateKey
}

func (s *ed25519Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.key, data), nil
}

type ed25519Verifier struct {
	key ed25519.PublicKey
}

func (v *ed25519Verifier) Verify(signature, data []byte) error {
	if len(signature) != ed25519.SignatureSize {
		return cipherset.ErrInvalidSignature
	}
	if !ed25519.Verify(v.key, data, signature) {
		return cipherset.ErrInvalidSignature
	}
	return nil
}

type ecdsaSigner struct {
	key *ecdsa.PrivateKey
}

func (s *ecdsaSigner) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	sig, err := ecdsa.SignASN1(rand.Reader, s.key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signature: ECDSA sign: %w", err)
	}
	return sig, nil
}

type ecdsaVerifier struct {
	key *ecdsa.PublicKey
}

func (v *ecdsaVerifier) Verify(signature, data []byte) error {
	digest := sha256.Sum256(data)
	if !ecdsa.VerifyASN1(v.key, digest[:], signature) {
		return cipherset.ErrInvalidSignature
	}
	return nil
}

type ed25519SignerResolver struct{}

func (ed25519SignerResolver) TypeURL() string {
	return Ed25519PrivateTypeURL
}

func (ed25519SignerResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	if buf.Size() != ed25519.SeedSize {
		return cipherset.Primitive{}, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidKeySize, buf.Size(), ed25519.SeedSize)
	}
	key := ed25519.NewKeyFromSeed(buf.Bytes())
	return cipherset.Primitive{Kind: cipherset.KindSigner, Value: &ed25519Signer{key: key}}, nil
}

type ed25519VerifierResolver struct{}

func (ed25519VerifierResolver) TypeURL() string {
	return Ed25519PublicTypeURL
}

func (ed25519VerifierResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	if buf.Size() != ed25519.PublicKeySize {
		return cipherset.Primitive{}, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidKeySize, buf.Size(), ed25519.PublicKeySize)
	}
	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(key, buf.Bytes())
	return cipherset.Primitive{Kind: cipherset.KindVerifier, Value: &ed25519Verifier{key: key}}, nil
}

type ecdsaSignerResolver struct{}

func (ecdsaSignerResolver) TypeURL() string {
	return ECDSAP256PrivateTypeURL
}

func (ecdsaSignerResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	key, err := x509.ParseECPrivateKey(buf.Bytes())
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if key.Curve != elliptic.P256() {
		return cipherset.Primitive{}, fmt.Errorf("%w: curve %s, want P-256", ErrInvalidKey, key.Curve.Params().Name)
	}
	return cipherset.Primitive{Kind: cipherset.KindSigner, Value: &ecdsaSigner{key: key}}, nil
}

type ecdsaVerifierResolver struct{}

func (ecdsaVerifierResolver) TypeURL() string {
	return ECDSAP256PublicTypeURL
}

func (ecdsaVerifierResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	parsed, err := x509.ParsePKIXPublicKey(buf.Bytes())
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return cipherset.Primitive{}, fmt.Errorf("%w: not an ECDSA key", ErrInvalidKey)
	}
	if key.Curve != elliptic.P256() {
		return cipherset.Primitive{}, fmt.Errorf("%w: curve %s, want P-256", ErrInvalidKey, key.Curve.Params().Name)
	}
	return cipherset.Primitive{Kind: cipherset.KindVerifier, Value: &ecdsaVerifier{key: key}}, nil
}
