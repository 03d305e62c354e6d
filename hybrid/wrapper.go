package hybrid

import (
	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/prefix"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/monitoring"
)

// EncryptWrapper converts a HybridEncrypt primitive set into a single
// cipherset.HybridEncrypt.
type EncryptWrapper struct{}

// Kind returns cipherset.KindHybridEncrypt.
func (*EncryptWrapper) Kind() cipherset.Kind {
	return cipherset.KindHybridEncrypt
}

// Wrap wraps the set. Encrypt fails with cipherset.ErrNoPrimary if the set
// has no primary.
func (*EncryptWrapper) Wrap(set *primitiveset.Set[cipherset.HybridEncrypt], client monitoring.Client) (cipherset.HybridEncrypt, error) {
	logger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "hybrid_encrypt",
		APIFunction: "encrypt",
		KeysetInfo:  cipherset.MonitoringKeysetInfo(set),
	})
	if err != nil {
		return nil, err
	}
	return &wrappedEncrypt{set: set, logger: logger}, nil
}

type wrappedEncrypt struct {
	set    *primitiveset.Set[cipherset.HybridEncrypt]
	logger monitoring.Logger
}

// Compile-time interface check.
var _ cipherset.HybridEncrypt = (*wrappedEncrypt)(nil)

// Encrypt encrypts plaintext with the primary key, binding contextInfo, and
// returns the primary's output prefix followed by the ciphertext.
func (h *wrappedEncrypt) Encrypt(plaintext, contextInfo []byte) ([]byte, error) {
	primary := h.set.Primary()
	if primary == nil {
		return nil, cipherset.ErrNoPrimary
	}
	ct, err := primary.Primitive.Encrypt(plaintext, contextInfo)
	if err != nil {
		h.logger.LogFailure()
		return nil, err
	}
	h.logger.Log(primary.KeyID, len(plaintext))
	if len(primary.OutputPrefix) == 0 {
		return ct, nil
	}
	out := make([]byte, 0, len(primary.OutputPrefix)+len(ct))
	out = append(out, primary.OutputPrefix...)
	return append(out, ct...), nil
}

// DecryptWrapper converts a HybridDecrypt primitive set into a single
// cipherset.HybridDecrypt.
type DecryptWrapper struct{}

// Kind returns cipherset.KindHybridDecrypt.
func (*DecryptWrapper) Kind() cipherset.Kind {
	return cipherset.KindHybridDecrypt
}

// Wrap wraps the set. Decryption needs no primary.
func (*DecryptWrapper) Wrap(set *primitiveset.Set[cipherset.HybridDecrypt], client monitoring.Client) (cipherset.HybridDecrypt, error) {
	logger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "hybrid_decrypt",
		APIFunction: "decrypt",
		KeysetInfo:  cipherset.MonitoringKeysetInfo(set),
	})
	if err != nil {
		return nil, err
	}
	return &wrappedDecrypt{set: set, logger: logger}, nil
}

type wrappedDecrypt struct {
	set    *primitiveset.Set[cipherset.HybridDecrypt]
	logger monitoring.Logger
}

// Compile-time interface check.
var _ cipherset.HybridDecrypt = (*wrappedDecrypt)(nil)

// Decrypt tries the keys whose output prefix opens the ciphertext, in keyset
// order, then every raw key over the whole input. Per-key failures are
// swallowed; if nothing succeeds the error is the generic
// cipherset.ErrDecryptionFailed.
func (h *wrappedDecrypt) Decrypt(ciphertext, contextInfo []byte) ([]byte, error) {
	if len(ciphertext) > prefix.NonRawSize {
		candidate := ciphertext[:prefix.NonRawSize]
		payload := ciphertext[prefix.NonRawSize:]
		for _, e := range h.set.EntriesForPrefix(candidate) {
			pt, err := e.Primitive.Decrypt(payload, contextInfo)
			if err == nil {
				h.logger.Log(e.KeyID, len(payload))
				return pt, nil
			}
		}
	}
	for _, e := range h.set.RawEntries() {
		pt, err := e.Primitive.Decrypt(ciphertext, contextInfo)
		if err == nil {
			h.logger.Log(e.KeyID, len(ciphertext))
			return pt, nil
		}
	}
	h.logger.LogFailure()
	return nil, cipherset.ErrDecryptionFailed
}
