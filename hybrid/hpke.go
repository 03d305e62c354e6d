package hybrid

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/hpke"
	"github.com/cloudflare/circl/kem"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// Type URLs of the HPKE key types in this package.
const (
	// HPKEPrivateTypeURL identifies X25519 HPKE private keys.
	HPKEPrivateTypeURL = "cipherset.io/hybrid/hpke-x25519.private"
	// HPKEPublicTypeURL identifies X25519 HPKE public keys.
	HPKEPublicTypeURL = "cipherset.io/hybrid/hpke-x25519.public"
)

// The fixed HPKE ciphersuite: X25519-HKDF-SHA256 KEM, HKDF-SHA256 KDF,
// AES-256-GCM AEAD.
var (
	hpkeKEM   = hpke.KEM_X25519_HKDF_SHA256
	hpkeSuite = hpke.NewSuite(hpke.KEM_X25519_HKDF_SHA256, hpke.KDF_HKDF_SHA256, hpke.AEAD_AES256GCM)
)

// ErrInvalidKey is returned when HPKE key material cannot be parsed.
var ErrInvalidKey = errors.New("hybrid: invalid key material")

// GenerateHPKEKeyPair returns sealed material for a fresh X25519 HPKE key
// pair, as two key datas to be placed in the private and public keysets
// respectively.
func GenerateHPKEKeyPair() (private, public *keyset.KeyData, err error) {
	pub, priv, err := hpkeKEM.Scheme().GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("hybrid: generate HPKE key: %w", err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("hybrid: marshal HPKE private key: %w", err)
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("hybrid: marshal HPKE public key: %w", err)
	}
	private, err = keyset.NewKeyData(HPKEPrivateTypeURL, privBytes)
	if err != nil {
		return nil, nil, err
	}
	public, err = keyset.NewKeyData(HPKEPublicTypeURL, pubBytes)
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}

// hpkeEncrypt seals to a recipient public key. The raw ciphertext is the
// KEM encapsulation followed by the sealed payload; contextInfo feeds the
// HPKE info input.
type hpkeEncrypt struct {
	pub kem.PublicKey
}

func (e *hpkeEncrypt) Encrypt(plaintext, contextInfo []byte) ([]byte, error) {
	sender, err := hpkeSuite.NewSender(e.pub, contextInfo)
	if err != nil {
		return nil, fmt.Errorf("hybrid: HPKE sender: %w", err)
	}
	enc, sealer, err := sender.Setup(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("hybrid: HPKE setup: %w", err)
	}
	sealed, err := sealer.Seal(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("hybrid: HPKE seal: %w", err)
	}
	out := make([]byte, 0, len(enc)+len(sealed))
	out = append(out, enc...)
	return append(out, sealed...), nil
}

type hpkeDecrypt struct {
	priv kem.PrivateKey
}

func (d *hpkeDecrypt) Decrypt(ciphertext, contextInfo []byte) ([]byte, error) {
	encSize := hpkeKEM.Scheme().CiphertextSize()
	if len(ciphertext) < encSize {
		return nil, cipherset.ErrDecryptionFailed
	}
	receiver, err := hpkeSuite.NewReceiver(d.priv, contextInfo)
	if err != nil {
		return nil, fmt.Errorf("hybrid: HPKE receiver: %w", err)
	}
	opener, err := receiver.Setup(ciphertext[:encSize])
	if err != nil {
		return nil, cipherset.ErrDecryptionFailed
	}
	pt, err := opener.Open(ciphertext[encSize:], nil)
	if err != nil {
		return nil, cipherset.ErrDecryptionFailed
	}
	return pt, nil
}

type hpkePublicResolver struct{}

func (hpkePublicResolver) TypeURL() string {
	return HPKEPublicTypeURL
}

func (hpkePublicResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	pub, err := hpkeKEM.Scheme().UnmarshalBinaryPublicKey(buf.Bytes())
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return cipherset.Primitive{Kind: cipherset.KindHybridEncrypt, Value: &hpkeEncrypt{pub: pub}}, nil
}

type hpkePrivateResolver struct{}

func (hpkePrivateResolver) TypeURL() string {
	return HPKEPrivateTypeURL
}

func (hpkePrivateResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	priv, err := hpkeKEM.Scheme().UnmarshalBinaryPrivateKey(buf.Bytes())
	if err != nil {
		return cipherset.Primitive{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return cipherset.Primitive{Kind: cipherset.KindHybridDecrypt, Value: &hpkeDecrypt{priv: priv}}, nil
}
