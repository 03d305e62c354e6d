package aead

import (
	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/prefix"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/monitoring"
)

// Wrapper converts an AEAD primitive set into a single cipherset.AEAD.
type Wrapper struct{}

// Kind returns cipherset.KindAEAD.
func (*Wrapper) Kind() cipherset.Kind {
	return cipherset.KindAEAD
}

// Wrap wraps the set. The set may lack a primary; Encrypt on the result then
// fails with cipherset.ErrNoPrimary while Decrypt still works.
func (*Wrapper) Wrap(set *primitiveset.Set[cipherset.AEAD], client monitoring.Client) (cipherset.AEAD, error) {
	info := cipherset.MonitoringKeysetInfo(set)
	encLogger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "aead",
		APIFunction: "encrypt",
		KeysetInfo:  info,
	})
	if err != nil {
		return nil, err
	}
	decLogger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "aead",
		APIFunction: "decrypt",
		KeysetInfo:  info,
	})
	if err != nil {
		return nil, err
	}
	return &wrappedAEAD{set: set, encLogger: encLogger, decLogger: decLogger}, nil
}

type wrappedAEAD struct {
	set       *primitiveset.Set[cipherset.AEAD]
	encLogger monitoring.Logger
	decLogger monitoring.Logger
}

// Compile-time interface check.
var _ cipherset.AEAD = (*wrappedAEAD)(nil)

// Encrypt encrypts plaintext with the primary key and returns the primary's
// output prefix followed by the ciphertext.
func (a *wrappedAEAD) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	primary := a.set.Primary()
	if primary == nil {
		return nil, cipherset.ErrNoPrimary
	}
	ct, err := primary.Primitive.Encrypt(plaintext, associatedData)
	if err != nil {
		a.encLogger.LogFailure()
		return nil, err
	}
	a.encLogger.Log(primary.KeyID, len(plaintext))
	if len(primary.OutputPrefix) == 0 {
		return ct, nil
	}
	out := make([]byte, 0, len(primary.OutputPrefix)+len(ct))
	out = append(out, primary.OutputPrefix...)
	return append(out, ct...), nil
}

// Decrypt tries the keys whose output prefix opens the ciphertext, in keyset
// order, then every raw key over the whole input. Per-key failures are
// swallowed; if nothing succeeds the error is the generic
// cipherset.ErrDecryptionFailed with no detail about the attempts.
func (a *wrappedAEAD) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	if len(ciphertext) > prefix.NonRawSize {
		candidate := ciphertext[:prefix.NonRawSize]
		payload := ciphertext[prefix.NonRawSize:]
		for _, e := range a.set.EntriesForPrefix(candidate) {
			pt, err := e.Primitive.Decrypt(payload, associatedData)
			if err == nil {
				a.decLogger.Log(e.KeyID, len(payload))
				return pt, nil
			}
		}
	}
	for _, e := range a.set.RawEntries() {
		pt, err := e.Primitive.Decrypt(ciphertext, associatedData)
		if err == nil {
			a.decLogger.Log(e.KeyID, len(ciphertext))
			return pt, nil
		}
	}
	a.decLogger.LogFailure()
	return nil, cipherset.ErrDecryptionFailed
}
