// Package cipherset provides key management and key rotation for
// cryptographic primitives. A logical operation — encrypt, decrypt, compute
// a tag, verify a signature — is backed transparently by a keyset holding
// several key versions, each potentially using a different algorithm, so
// that keys can be rotated without breaking anything produced under older
// keys.
//
// # Keysets and output prefixes
//
// A keyset (package keyset) is an ordered list of keys, one of which is the
// primary. New output is produced under the primary; every key remains a
// candidate for decryption and verification. Each key carries an
// output-prefix convention: a short byte sequence prepended to everything
// the key produces. On the way back, the prefix routes a ciphertext or tag
// to the handful of keys that could have produced it, so verification does
// not trial-decrypt the whole keyset.
//
// # Wrapped primitives
//
// Each primitive package (aead, mac, signature, hybrid, prf, jwt) turns a
// keyset handle into a single object implementing that primitive's
// interface. Producing operations use the primary key and prepend its
// prefix. Consuming operations strip the prefix, try the matching keys in
// keyset order, and fall back to raw (prefixless) keys over the whole input.
// Per-key failures are swallowed and the final error is a generic sentinel:
// which keys were tried, and why each failed, is deliberately not revealed.
//
// # Registry
//
// A Registry maps key type URLs to resolvers (which construct a primitive
// from sealed key material) and primitive kinds to wrappers. It is explicit,
// injectable state — construct one with NewRegistry and register what you
// need, or use the config package for a registry with everything in this
// module registered:
//
//	reg, err := config.NewRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kd, err := aead.GenerateAES256GCMKey()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := keyset.NewManager()
//	if _, err := m.Add(kd, keyset.PrefixStandard); err != nil {
//	    log.Fatal(err)
//	}
//	handle, err := m.Handle()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := aead.New(handle, reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ct, err := a.Encrypt([]byte("secret"), []byte("context"))
//
// # Concurrency
//
// Handles, primitive sets and wrapped primitives are immutable after
// construction and safe for concurrent use. The Registry serializes
// registration and is read-mostly afterwards. keyset.Manager and the
// primitive-set builder are single-goroutine constructs.
//
// # Observability
//
// Wrapped primitives emit one event per operation through the monitoring
// package: success events carry the serving key ID and input size, failures
// carry nothing. The default logger is a no-op; attach annotations to a
// handle and a monitoring.Client to the registry to turn events on.
package cipherset
