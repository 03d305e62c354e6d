package cipherset

import (
	"fmt"

	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/keyset"
	"github.com/cipherset/cipherset-go/monitoring"
)

// Primitives resolves every enabled key of the handle into a constructed
// primitive and assembles the frozen primitive set the per-kind wrappers
// dispatch over. Disabled and destroyed keys are skipped; the keyset primary
// becomes the set primary.
//
// Each key's resolver is looked up by type URL in the registry, and the
// resolved primitive's capability tag must equal the requested kind — this
// is the single place where "is this key really an X" is decided, so a
// primitive is never wrapped as a capability it only structurally satisfies.
func Primitives[T any](h *keyset.Handle, r *Registry, kind Kind) (*primitiveset.Set[T], error) {
	if h == nil {
		return nil, fmt.Errorf("cipherset: nil keyset handle")
	}
	if r == nil {
		return nil, fmt.Errorf("cipherset: nil registry")
	}
	b := primitiveset.NewBuilder[T]()
	if err := b.SetAnnotations(h.Annotations()); err != nil {
		return nil, err
	}
	for _, key := range h.Keys() {
		if key.Status != keyset.StatusEnabled {
			continue
		}
		res, err := r.ResolverFor(key.Data.TypeURL())
		if err != nil {
			return nil, err
		}
		p, err := res.Resolve(key.Data)
		if err != nil {
			return nil, fmt.Errorf("cipherset: resolve key %d: %w", key.ID, err)
		}
		if p.Kind != kind {
			return nil, fmt.Errorf("%w: key %d resolves to %v, want %v",
				ErrKindMismatch, key.ID, p.Kind, kind)
		}
		v, ok := p.Value.(T)
		if !ok {
			return nil, fmt.Errorf("cipherset: resolver for %q returned %T, inconsistent with kind %v",
				key.Data.TypeURL(), p.Value, p.Kind)
		}
		if err := b.AddEntry(v, key, key.ID == h.PrimaryID()); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// MonitoringKeysetInfo describes a primitive set for the monitoring client.
func MonitoringKeysetInfo[T any](set *primitiveset.Set[T]) *monitoring.KeysetInfo {
	info := &monitoring.KeysetInfo{Annotations: set.Annotations()}
	if p := set.Primary(); p != nil {
		info.PrimaryKeyID = p.KeyID
	}
	for _, e := range set.EntriesInKeysetOrder() {
		info.Keys = append(info.Keys, monitoring.KeyInfo{
			ID:         e.KeyID,
			Status:     keyset.StatusEnabled.String(),
			TypeURL:    e.TypeURL,
			PrefixType: e.PrefixType.String(),
		})
	}
	return info
}
