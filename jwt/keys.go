package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/keyset"
)

// Type URLs of the JWT key types in this package.
const (
	// HS256TypeURL identifies HMAC-SHA256 JWT keys.
	HS256TypeURL = "cipherset.io/jwt/hs256"
	// ES256PrivateTypeURL identifies ECDSA P-256 JWT signing keys.
	ES256PrivateTypeURL = "cipherset.io/jwt/es256.private"
	// ES256PublicTypeURL identifies ECDSA P-256 JWT verification keys.
	ES256PublicTypeURL = "cipherset.io/jwt/es256.public"
)

const hs256KeySize = 32

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidKeySize is returned when HS256 key material is not 32 bytes.
	ErrInvalidKeySize = errors.New("jwt: invalid key size")

	// ErrInvalidKey is returned when ES256 key material cannot be parsed.
	ErrInvalidKey = errors.New("jwt: invalid key material")
)

// GenerateHS256Key returns sealed material for a fresh HS256 key.
func GenerateHS256Key() (*keyset.KeyData, error) {
	material := make([]byte, hs256KeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("jwt: generate HS256 key: %w", err)
	}
	return keyset.NewKeyData(HS256TypeURL, material)
}

// GenerateES256KeyPair returns sealed material for a fresh ECDSA P-256 key
// pair, as two key datas to be placed in the private and public keysets
// respectively.
func GenerateES256KeyPair() (private, public *keyset.KeyData, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("jwt: generate ES256 key: %w", err)
	}
	privBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("jwt: marshal ES256 private key: %w", err)
	}
	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("jwt: marshal ES256 public key: %w", err)
	}
	private, err = keyset.NewKeyData(ES256PrivateTypeURL, privBytes)
	if err != nil {
		return nil, nil, err
	}
	public, err = keyset.NewKeyData(ES256PublicTypeURL, pubBytes)
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}

// macPrimitive computes and verifies symmetric tokens for one key.
type macPrimitive interface {
	computeAndEncode(claims *Claims, kid *string) (string, error)
	verifyAndDecode(compact string, v *Validator, kid *string) (*Claims, error)
}

// signerPrimitive signs tokens for one private key.
type signerPrimitive interface {
	signAndEncode(claims *Claims, kid *string) (string, error)
}

// verifierPrimitive verifies tokens for one public key.
type verifierPrimitive interface {
	verifyAndDecode(compact string, v *Validator, kid *string) (*Claims, error)
}

// encode signs claims with the given method and key, setting the kid header
// when the key carries one.
func encode(method jwtlib.SigningMethod, key any, claims *Claims, kid *string) (string, error) {
	token := jwtlib.NewWithClaims(method, claims.toMapClaims())
	if kid != nil {
		token.Header["kid"] = *kid
	}
	compact, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return compact, nil
}

// decode parses and validates a compact token against one key. When kid is
// non-nil the token's kid header must match it exactly; keys without a kid
// accept tokens regardless of the header.
func decode(alg string, key any, compact string, v *Validator, kid *string) (*Claims, error) {
	parser := jwtlib.NewParser(v.parserOptions(alg)...)
	mc := jwtlib.MapClaims{}
	_, err := parser.ParseWithClaims(compact, mc, func(token *jwtlib.Token) (any, error) {
		if kid != nil {
			header, ok := token.Header["kid"].(string)
			if !ok || header != *kid {
				return nil, fmt.Errorf("jwt: kid header mismatch")
			}
		}
		return key, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}
	return claimsFromMapClaims(mc)
}

// hs256 is the per-key HS256 primitive.
type hs256 struct {
	key []byte
}

func (p *hs256) computeAndEncode(claims *Claims, kid *string) (string, error) {
	return encode(jwtlib.SigningMethodHS256, p.key, claims, kid)
}

func (p *hs256) verifyAndDecode(compact string, v *Validator, kid *string) (*Claims, error) {
	return decode(jwtlib.SigningMethodHS256.Alg(), p.key, compact, v, kid)
}

// es256Signer is the per-key ES256 signing primitive.
type es256Signer struct {
	key *ecdsa.PrivateKey
}

func (p *es256Signer) signAndEncode(claims *Claims, kid *string) (string, error) {
	return encode(jwtlib.SigningMethodES256, p.key, claims, kid)
}

// es256Verifier is the per-key ES256 verification primitive.
type es256Verifier struct {
	key *ecdsa.PublicKey
}

func (p *es256Verifier) verifyAndDecode(compact string, v *Validator, kid *string) (*Claims, error) {
	return decode(jwtlib.SigningMethodES256.Alg(), p.key, compact, v, kid)
}

type hs256Resolver struct{}

func (hs256Resolver) TypeURL() string {
	return HS256TypeURL
}

func (hs256Resolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
	buf, err := data.Open()
	if err != nil {
		return cipherset.Primitive{}, err
	}
	defer buf.Destroy()
	if buf.Size() != hs256KeySize {
		return cipherset.Primitive{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, buf.Size(), hs256KeySize)
	}
	key := make([]byte, hs256KeySize)
	copy(key, buf.Bytes())
	return cipherset.Primitive{Kind: cipherset.KindJWTMAC, Value: &hs256{key: key}}, nil
}

type es256PrivateResolver struct{}

func (es256PrivateResolver) TypeURL() string {
	return ES256PrivateTypeURL
}

func (es256PrivateResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
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
	return cipherset.Primitive{Kind: cipherset.KindJWTSigner, Value: &es256Signer{key: key}}, nil
}

type es256PublicResolver struct{}

func (es256PublicResolver) TypeURL() string {
	return ES256PublicTypeURL
}

func (es256PublicResolver) Resolve(data *keyset.KeyData) (cipherset.Primitive, error) {
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
		return cipherset.Primitive{}, fmt.Errorf("%w: not an ECDSA public key", ErrInvalidKey)
	}
	if key.Curve != elliptic.P256() {
		return cipherset.Primitive{}, fmt.Errorf("%w: curve %s, want P-256", ErrInvalidKey, key.Curve.Params().Name)
	}
	return cipherset.Primitive{Kind: cipherset.KindJWTVerifier, Value: &es256Verifier{key: key}}, nil
}
