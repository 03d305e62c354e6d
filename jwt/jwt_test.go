package jwt

import (
	"errors"
	"testing"
	"time"

	cipherset "github.com/cipherset/cipherset-go"
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

func handleFor(t *testing.T, primaryID uint32, keys ...keyset.Key) *keyset.Handle {
	t.Helper()
	h, err := keyset.NewHandle(&keyset.Keyset{PrimaryID: primaryID, Keys: keys})
	if err != nil {
		t.Fatalf("NewHandle() error = %v", err)
	}
	return h
}

func hs256Key(t *testing.T, id uint32, prefix keyset.PrefixType) keyset.Key {
	t.Helper()
	kd, err := GenerateHS256Key()
	if err != nil {
		t.Fatalf("GenerateHS256Key() error = %v", err)
	}
	return keyset.Key{ID: id, Status: keyset.StatusEnabled, Prefix: prefix, Data: kd}
}

func TestKeyIDToKid(t *testing.T) {
	if got, want := keyIDToKid(1234), "AAAE0g"; got != want {
		t.Errorf("keyIDToKid(1234) = %q, want %q", got, want)
	}
}

func TestMACRoundTrip(t *testing.T) {
	r := testRegistry(t)

	for _, prefix := range []keyset.PrefixType{keyset.PrefixRaw, keyset.PrefixStandard} {
		t.Run(prefix.String(), func(t *testing.T) {
			m, err := NewMAC(handleFor(t, 1, hs256Key(t, 1, prefix)), r)
			if err != nil {
				t.Fatalf("NewMAC() error = %v", err)
			}

			exp := time.Now().Add(time.Hour)
			claims := &Claims{
				Issuer:    "issuer.example",
				Subject:   "user-7",
				Audience:  []string{"billing"},
				ExpiresAt: &exp,
				Custom:    map[string]any{"tier": "gold"},
			}
			compact, err := m.ComputeMACAndEncode(claims)
			if err != nil {
				t.Fatalf("ComputeMACAndEncode() error = %v", err)
			}

			got, err := m.VerifyMACAndDecode(compact, nil)
			if err != nil {
				t.Fatalf("VerifyMACAndDecode() error = %v", err)
			}
			if got.Issuer != "issuer.example" {
				t.Errorf("Issuer = %q, want %q", got.Issuer, "issuer.example")
			}
			if got.Subject != "user-7" {
				t.Errorf("Subject = %q, want %q", got.Subject, "user-7")
			}
			if len(got.Audience) != 1 || got.Audience[0] != "billing" {
				t.Errorf("Audience = %v, want [billing]", got.Audience)
			}
			if got.ExpiresAt == nil || !got.ExpiresAt.Equal(exp.Truncate(time.Second)) {
				t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, exp.Truncate(time.Second))
			}
			if got.Custom["tier"] != "gold" {
				t.Errorf(`Custom["tier"] = %v, want "gold"`, got.Custom["tier"])
			}
		})
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	r := testRegistry(t)

	privData, pubData, err := GenerateES256KeyPair()
	if err != nil {
		t.Fatalf("GenerateES256KeyPair() error = %v", err)
	}
	priv := keyset.Key{ID: 42, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: privData}
	pub := keyset.Key{ID: 42, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: pubData}

	signer, err := NewSigner(handleFor(t, 42, priv), r)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	verifier, err := NewVerifier(handleFor(t, 42, pub), r)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	compact, err := signer.SignAndEncode(&Claims{Subject: "user-7"})
	if err != nil {
		t.Fatalf("SignAndEncode() error = %v", err)
	}
	got, err := verifier.VerifyAndDecode(compact, nil)
	if err != nil {
		t.Fatalf("VerifyAndDecode() error = %v", err)
	}
	if got.Subject != "user-7" {
		t.Errorf("Subject = %q, want %q", got.Subject, "user-7")
	}
}

func TestVerifyForeignKey(t *testing.T) {
	r := testRegistry(t)

	m1, err := NewMAC(handleFor(t, 1, hs256Key(t, 1, keyset.PrefixStandard)), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}
	m2, err := NewMAC(handleFor(t, 1, hs256Key(t, 1, keyset.PrefixStandard)), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}

	compact, err := m1.ComputeMACAndEncode(&Claims{Subject: "user-7"})
	if err != nil {
		t.Fatalf("ComputeMACAndEncode() error = %v", err)
	}
	if _, err := m2.VerifyMACAndDecode(compact, nil); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("VerifyMACAndDecode(foreign) error = %v, want %v", err, ErrVerificationFailed)
	}
}

func TestKidMismatch(t *testing.T) {
	// Same key material under a different key ID: the MAC would verify, but
	// the kid bound into the token no longer matches the candidate key.
	r := testRegistry(t)

	kd, err := GenerateHS256Key()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := kd.Open()
	if err != nil {
		t.Fatal(err)
	}
	material := append([]byte(nil), buf.Bytes()...)
	buf.Destroy()
	kd2, err := keyset.NewKeyData(HS256TypeURL, material)
	if err != nil {
		t.Fatal(err)
	}

	signKey := keyset.Key{ID: 1, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: kd}
	verifyKey := keyset.Key{ID: 2, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: kd2}

	m1, err := NewMAC(handleFor(t, 1, signKey), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}
	m2, err := NewMAC(handleFor(t, 2, verifyKey), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}

	compact, err := m1.ComputeMACAndEncode(&Claims{Subject: "user-7"})
	if err != nil {
		t.Fatalf("ComputeMACAndEncode() error = %v", err)
	}
	if _, err := m2.VerifyMACAndDecode(compact, nil); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("VerifyMACAndDecode(kid mismatch) error = %v, want %v", err, ErrVerificationFailed)
	}
}

func TestRawKeyIgnoresKid(t *testing.T) {
	// A raw key binds no kid, so it accepts tokens with or without the
	// header — this is what lets raw keys verify tokens from rotated-out
	// standard keys whose material was re-imported raw.
	r := testRegistry(t)

	kd, err := GenerateHS256Key()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := kd.Open()
	if err != nil {
		t.Fatal(err)
	}
	material := append([]byte(nil), buf.Bytes()...)
	buf.Destroy()
	kd2, err := keyset.NewKeyData(HS256TypeURL, material)
	if err != nil {
		t.Fatal(err)
	}

	standard, err := NewMAC(handleFor(t, 1,
		keyset.Key{ID: 1, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: kd}), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}
	raw, err := NewMAC(handleFor(t, 2,
		keyset.Key{ID: 2, Status: keyset.StatusEnabled, Prefix: keyset.PrefixRaw, Data: kd2}), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}

	compact, err := standard.ComputeMACAndEncode(&Claims{Subject: "user-7"})
	if err != nil {
		t.Fatalf("ComputeMACAndEncode() error = %v", err)
	}
	if _, err := raw.VerifyMACAndDecode(compact, nil); err != nil {
		t.Errorf("VerifyMACAndDecode() with raw key error = %v", err)
	}
}

func TestUnsupportedPrefixRejectedAtWrap(t *testing.T) {
	r := testRegistry(t)
	h := handleFor(t, 1, hs256Key(t, 1, keyset.PrefixLegacy))
	if _, err := NewMAC(h, r); !errors.Is(err, ErrUnsupportedPrefix) {
		t.Errorf("NewMAC(legacy key) error = %v, want %v", err, ErrUnsupportedPrefix)
	}
}

func TestExpiredTokenPreferredOverGenericFailure(t *testing.T) {
	// With several keys in the set, an expired token that verifies under one
	// of them reports the expiry, not the generic failure: the caller learns
	// the token was genuine but stale.
	r := testRegistry(t)

	signKey := hs256Key(t, 2, keyset.PrefixStandard)
	m1, err := NewMAC(handleFor(t, 2, signKey), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}
	exp := time.Now().Add(-time.Hour)
	compact, err := m1.ComputeMACAndEncode(&Claims{Subject: "user-7", ExpiresAt: &exp})
	if err != nil {
		t.Fatalf("ComputeMACAndEncode() error = %v", err)
	}

	// Verifying set holds an unrelated key first, then the signing key.
	m2, err := NewMAC(handleFor(t, 1, hs256Key(t, 1, keyset.PrefixStandard), signKey), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}
	_, err = m2.VerifyMACAndDecode(compact, nil)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyMACAndDecode(expired) error = %v, want %v", err, ErrTokenInvalid)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error %v is not a *ValidationError", err)
	}
}

func TestValidator(t *testing.T) {
	r := testRegistry(t)
	m, err := NewMAC(handleFor(t, 1, hs256Key(t, 1, keyset.PrefixStandard)), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}

	exp := time.Now().Add(time.Hour)
	compact, err := m.ComputeMACAndEncode(&Claims{
		Issuer:    "issuer.example",
		Audience:  []string{"billing"},
		ExpiresAt: &exp,
	})
	if err != nil {
		t.Fatalf("ComputeMACAndEncode() error = %v", err)
	}

	tests := []struct {
		name      string
		validator *Validator
		wantErr   error
	}{
		{
			name:      "matching expectations",
			validator: NewValidator(WithExpectedIssuer("issuer.example"), WithExpectedAudience("billing")),
		},
		{
			name:      "wrong issuer",
			validator: NewValidator(WithExpectedIssuer("other.example")),
			wantErr:   ErrTokenInvalid,
		},
		{
			name:      "wrong audience",
			validator: NewValidator(WithExpectedAudience("shipping")),
			wantErr:   ErrTokenInvalid,
		},
		{
			name:      "expired by the validator clock",
			validator: NewValidator(WithTimeFunc(func() time.Time { return time.Now().Add(2 * time.Hour) })),
			wantErr:   ErrTokenInvalid,
		},
		{
			name: "leeway absorbs small skew",
			validator: NewValidator(
				WithTimeFunc(func() time.Time { return exp.Add(time.Minute) }),
				WithLeeway(5*time.Minute),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyMACAndDecode(compact, tt.validator)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("VerifyMACAndDecode() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyMACAndDecode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	r := testRegistry(t)
	m, err := NewMAC(handleFor(t, 1, hs256Key(t, 1, keyset.PrefixStandard)), r)
	if err != nil {
		t.Fatalf("NewMAC() error = %v", err)
	}
	compact, err := m.ComputeMACAndEncode(&Claims{Subject: "user-7"})
	if err != nil {
		t.Fatalf("ComputeMACAndEncode() error = %v", err)
	}

	tampered := compact[:len(compact)-2] + "xx"
	if _, err := m.VerifyMACAndDecode(tampered, nil); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("VerifyMACAndDecode(tampered) error = %v, want %v", err, ErrVerificationFailed)
	}
	if _, err := m.VerifyMACAndDecode("not-a-token", nil); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("VerifyMACAndDecode(garbage) error = %v, want %v", err, ErrVerificationFailed)
	}
}

func TestKindSeparation(t *testing.T) {
	r := testRegistry(t)
	privData, pubData, err := GenerateES256KeyPair()
	if err != nil {
		t.Fatal(err)
	}
	priv := keyset.Key{ID: 1, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: privData}
	pub := keyset.Key{ID: 1, Status: keyset.StatusEnabled, Prefix: keyset.PrefixStandard, Data: pubData}

	if _, err := NewSigner(handleFor(t, 1, pub), r); !errors.Is(err, cipherset.ErrKindMismatch) {
		t.Errorf("NewSigner(public keyset) error = %v, want %v", err, cipherset.ErrKindMismatch)
	}
	if _, err := NewVerifier(handleFor(t, 1, priv), r); !errors.Is(err, cipherset.ErrKindMismatch) {
		t.Errorf("NewVerifier(private keyset) error = %v, want %v", err, cipherset.ErrKindMismatch)
	}
}
