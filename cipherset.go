package cipherset

import "github.com/cipherset/cipherset-go/keyset"

// AEAD is authenticated encryption with associated data. The associated data
// is authenticated but not encrypted; decryption succeeds only when called
// with the same associated data the ciphertext was produced with.
type AEAD interface {
	// Encrypt encrypts plaintext, binding associatedData to the ciphertext.
	Encrypt(plaintext, associatedData []byte) ([]byte, error)
	// Decrypt decrypts ciphertext, verifying the integrity of associatedData.
	Decrypt(ciphertext, associatedData []byte) ([]byte, error)
}

// MAC computes and verifies message authentication codes.
type MAC interface {
	// ComputeMAC computes an authentication tag over data.
	ComputeMAC(data []byte) ([]byte, error)
	// VerifyMAC reports whether mac is a valid tag over data. It returns
	// nil on success and ErrInvalidMAC otherwise.
	VerifyMAC(mac, data []byte) error
}

// Signer produces digital signatures with a private key.
type Signer interface {
	// Sign signs data.
	Sign(data []byte) ([]byte, error)
}

// Verifier checks digital signatures with a public key.
type Verifier interface {
	// Verify reports whether signature is valid over data. It returns nil
	// on success and ErrInvalidSignature otherwise.
	Verify(signature, data []byte) error
}

// HybridEncrypt is the public-key half of hybrid encryption. The contextInfo
// is bound to the ciphertext: decryption succeeds only with the same value.
// It is not confidential.
type HybridEncrypt interface {
	// Encrypt encrypts plaintext, binding contextInfo to the ciphertext.
	Encrypt(plaintext, contextInfo []byte) ([]byte, error)
}

// HybridDecrypt is the private-key half of hybrid encryption.
type HybridDecrypt interface {
	// Decrypt decrypts ciphertext, verifying the integrity of contextInfo.
	Decrypt(ciphertext, contextInfo []byte) ([]byte, error)
}

// PRF is a pseudorandom function: a keyed deterministic map from arbitrary
// input to outputLength bytes indistinguishable from random.
type PRF interface {
	// ComputePRF evaluates the function over input, producing outputLength
	// bytes.
	ComputePRF(input []byte, outputLength int) ([]byte, error)
}

// Kind is the capability tag of a constructed primitive. Resolvers attach it
// at construction time and assembly checks it against the requested kind, so
// that a primitive is never wrapped as a capability it merely happens to
// structurally satisfy (an AEAD also has the method set of hybrid
// encryption, for instance).
type Kind int

const (
	// KindUnknown is the zero value and never valid.
	KindUnknown Kind = iota
	// KindAEAD tags AEAD primitives.
	KindAEAD
	// KindMAC tags MAC primitives.
	KindMAC
	// KindSigner tags signing primitives.
	KindSigner
	// KindVerifier tags signature-verification primitives.
	KindVerifier
	// KindHybridEncrypt tags hybrid-encryption primitives.
	KindHybridEncrypt
	// KindHybridDecrypt tags hybrid-decryption primitives.
	KindHybridDecrypt
	// KindPRF tags pseudorandom-function primitives.
	KindPRF
	// KindJWTMAC tags symmetric JWT primitives.
	KindJWTMAC
	// KindJWTSigner tags JWT signing primitives.
	KindJWTSigner
	// KindJWTVerifier tags JWT signature-verification primitives.
	KindJWTVerifier
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAEAD:
		return "aead"
	case KindMAC:
		return "mac"
	case KindSigner:
		return "signer"
	case KindVerifier:
		return "verifier"
	case KindHybridEncrypt:
		return "hybrid_encrypt"
	case KindHybridDecrypt:
		return "hybrid_decrypt"
	case KindPRF:
		return "prf"
	case KindJWTMAC:
		return "jwt_mac"
	case KindJWTSigner:
		return "jwt_signer"
	case KindJWTVerifier:
		return "jwt_verifier"
	default:
		return "unknown"
	}
}

// Primitive is a constructed cryptographic object tagged with its
// capability.
type Primitive struct {
	// Kind is the capability of Value.
	Kind Kind
	// Value implements the interface the Kind promises.
	Value any
}

// KeyResolver turns the sealed material of one key into a constructed
// primitive. A resolver serves exactly one type URL and produces exactly one
// kind of primitive; asymmetric schemes register separate resolvers for the
// private-key and public-key type URLs.
//
// Resolvers must be safe for concurrent use.
type KeyResolver interface {
	// TypeURL returns the algorithm-family identifier this resolver serves.
	TypeURL() string
	// Resolve constructs the primitive from sealed key material. It fails
	// with a descriptive error when the material is malformed.
	Resolve(data *keyset.KeyData) (Primitive, error)
}

// WrapperKind is implemented by every primitive wrapper registered with a
// Registry. The concrete wrap signature is generic over the primitive
// interface, so the registry stores wrappers behind this narrow contract and
// the per-kind factory asserts the full type back.
type WrapperKind interface {
	// Kind returns the primitive kind the wrapper produces.
	Kind() Kind
}
