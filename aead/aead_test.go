package aead

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/keyset"
)

func testRegistry(t *testing.T) *cipherset.Registry {
	t.Helper()
	r := cipherset.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func singleKeyHandle(t *testing.T, generate func() (*keyset.KeyData, error), prefix keyset.PrefixType) *keyset.Handle {
	t.Helper()
	kd, err := generate()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	m := keyset.NewManager()
	if _, err := m.Add(kd, prefix); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	h, err := m.Handle()
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	return h
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name     string
		generate func() (*keyset.KeyData, error)
		prefix   keyset.PrefixType
	}{
		{"AES-256-GCM raw", GenerateAES256GCMKey, keyset.PrefixRaw},
		{"AES-256-GCM standard", GenerateAES256GCMKey, keyset.PrefixStandard},
		{"AES-256-GCM legacy", GenerateAES256GCMKey, keyset.PrefixLegacy},
		{"AES-256-GCM crunchy", GenerateAES256GCMKey, keyset.PrefixCrunchy},
		{"XChaCha20-Poly1305 standard", GenerateXChaCha20Poly1305Key, keyset.PrefixStandard},
		{"XChaCha20-Poly1305 raw", GenerateXChaCha20Poly1305Key, keyset.PrefixRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := singleKeyHandle(t, tt.generate, tt.prefix)
			a, err := New(h, r)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			plaintext := []byte("attack at dawn")
			ad := []byte("context")
			ct, err := a.Encrypt(plaintext, ad)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			got, err := a.Decrypt(ct, ad)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(got, plaintext) {
				t.Errorf("Decrypt() = %q, want %q", got, plaintext)
			}
		})
	}
}

func TestEncryptPrependsPrimaryPrefix(t *testing.T) {
	r := testRegistry(t)

	kd, err := GenerateAES256GCMKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	ks := &keyset.Keyset{
		PrimaryID: 1234,
		Keys:      []keyset.Key{{ID: 1234, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: kd}},
	}
	h, err := keyset.NewHandle(ks)
	if err != nil {
		t.Fatalf("NewHandle() error = %v", err)
	}
	a, err := New(h, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ct, err := a.Encrypt([]byte("x"), nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	want := []byte{0x01, 0x00, 0x00, 0x04, 0xD2}
	if len(ct) < len(want) || !bytes.Equal(ct[:len(want)], want) {
		t.Errorf("ciphertext prefix = %x, want %x", ct[:min(len(ct), len(want))], want)
	}
}

func TestDecryptAfterRotation(t *testing.T) {
	r := testRegistry(t)

	kd, err := GenerateAES256GCMKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	m := keyset.NewManager()
	if _, err := m.Add(kd, keyset.PrefixStandard); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	h1, err := m.Handle()
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	a1, err := New(h1, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	plaintext := []byte("sealed before rotation")
	old, err := a1.Encrypt(plaintext, nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	kd2, err := GenerateXChaCha20Poly1305Key()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	newID, err := m.Rotate(kd2, keyset.PrefixStandard)
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	h2, err := m.Handle()
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	a2, err := New(h2, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Old ciphertext still decrypts under the rotated keyset.
	got, err := a2.Decrypt(old, nil)
	if err != nil {
		t.Fatalf("Decrypt(old) error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Decrypt(old) = %q, want %q", got, plaintext)
	}

	// New output is produced under the new primary.
	fresh, err := a2.Encrypt(plaintext, nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	wantPrefix := []byte{0x01, byte(newID >> 24), byte(newID >> 16), byte(newID >> 8), byte(newID)}
	if !bytes.Equal(fresh[:5], wantPrefix) {
		t.Errorf("fresh ciphertext prefix = %x, want %x", fresh[:5], wantPrefix)
	}
}

func TestDecryptRawFallback(t *testing.T) {
	r := testRegistry(t)

	rawHandle := singleKeyHandle(t, GenerateAES256GCMKey, keyset.PrefixRaw)
	rawAEAD, err := New(rawHandle, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// A raw ciphertext long enough that its first bytes could be mistaken for
	// a prefix.
	plaintext := make([]byte, 64)
	if _, err := rand.Read(plaintext); err != nil {
		t.Fatal(err)
	}
	ct, err := rawAEAD.Encrypt(plaintext, nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// Mixed keyset: the raw key plus a standard-prefix key.
	m := keyset.NewManagerFromHandle(rawHandle)
	kd, err := GenerateAES256GCMKey()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Rotate(kd, keyset.PrefixStandard); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	h, err := m.Handle()
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	a, err := New(h, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := a.Decrypt(ct, nil)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Error("raw fallback returned wrong plaintext")
	}
}

func TestDecryptFailuresAreGeneric(t *testing.T) {
	r := testRegistry(t)
	h := singleKeyHandle(t, GenerateAES256GCMKey, keyset.PrefixStandard)
	a, err := New(h, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ct, err := a.Encrypt([]byte("payload"), []byte("ad"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tests := []struct {
		name string
		ct   []byte
		ad   []byte
	}{
		{"tampered ciphertext", append(append([]byte(nil), ct[:len(ct)-1]...), ct[len(ct)-1]^1), []byte("ad")},
		{"wrong associated data", ct, []byte("other")},
		{"foreign prefix", append([]byte{0x01, 0xDE, 0xAD, 0xBE, 0xEF}, ct[5:]...), []byte("ad")},
		{"empty input", nil, []byte("ad")},
		{"prefix only", ct[:5], []byte("ad")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Decrypt(tt.ct, tt.ad); !errors.Is(err, cipherset.ErrDecryptionFailed) {
				t.Errorf("Decrypt() error = %v, want %v", err, cipherset.ErrDecryptionFailed)
			}
		})
	}
}

func TestDecryptForeignKeyset(t *testing.T) {
	r := testRegistry(t)

	a1, err := New(singleKeyHandle(t, GenerateAES256GCMKey, keyset.PrefixStandard), r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a2, err := New(singleKeyHandle(t, GenerateAES256GCMKey, keyset.PrefixStandard), r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ct, err := a1.Encrypt([]byte("secret"), nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if _, err := a2.Decrypt(ct, nil); !errors.Is(err, cipherset.ErrDecryptionFailed) {
		t.Errorf("Decrypt(foreign) error = %v, want %v", err, cipherset.ErrDecryptionFailed)
	}
}

func TestEncryptWithoutPrimary(t *testing.T) {
	// A set without a primary can only arise below the handle layer; wrap it
	// directly.
	b := primitiveset.NewBuilder[cipherset.AEAD]()
	set, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	a, err := (&Wrapper{}).Wrap(set, nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if _, err := a.Encrypt([]byte("x"), nil); !errors.Is(err, cipherset.ErrNoPrimary) {
		t.Errorf("Encrypt() error = %v, want %v", err, cipherset.ErrNoPrimary)
	}
	if _, err := a.Decrypt([]byte("anything at all"), nil); !errors.Is(err, cipherset.ErrDecryptionFailed) {
		t.Errorf("Decrypt() error = %v, want %v", err, cipherset.ErrDecryptionFailed)
	}
}

func TestResolverRejectsBadKeySize(t *testing.T) {
	kd, err := keyset.NewKeyData(AES256GCMTypeURL, []byte("short"))
	if err != nil {
		t.Fatalf("NewKeyData() error = %v", err)
	}
	ks := &keyset.Keyset{
		PrimaryID: 1,
		Keys:      []keyset.Key{{ID: 1, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: kd}},
	}
	h, err := keyset.NewHandle(ks)
	if err != nil {
		t.Fatalf("NewHandle() error = %v", err)
	}
	if _, err := New(h, testRegistry(t)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("New() error = %v, want %v", err, ErrInvalidKeySize)
	}
}
