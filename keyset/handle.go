package keyset

// Handle is a validated, read-only view of a keyset, optionally carrying
// monitoring annotations. It is the value primitive factories consume.
//
// A Handle is immutable and safe for concurrent use. Rotation produces a new
// Handle (see [Manager]); existing Handles are never mutated.
type Handle struct {
	ks          *Keyset
	annotations map[string]string
}

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithAnnotations attaches monitoring annotations to the handle. Annotations
// are forwarded to the monitoring client with every logged event; when no
// annotations are set, wrapped primitives use a no-op logger.
func WithAnnotations(annotations map[string]string) HandleOption {
	return func(h *Handle) {
		if len(annotations) == 0 {
			return
		}
		h.annotations = make(map[string]string, len(annotations))
		for k, v := range annotations {
			h.annotations[k] = v
		}
	}
}

// NewHandle validates ks and wraps it. The keyset is copied; later changes to
// ks are not visible through the handle.
func NewHandle(ks *Keyset, opts ...HandleOption) (*Handle, error) {
	if err := ks.Validate(); err != nil {
		return nil, err
	}
	cp := &Keyset{
		PrimaryID: ks.PrimaryID,
		Keys:      append([]Key(nil), ks.Keys...),
	}
	h := &Handle{ks: cp}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// PrimaryID returns the ID of the designated primary key.
func (h *Handle) PrimaryID() uint32 {
	return h.ks.PrimaryID
}

// Keys returns the key records in keyset order.
func (h *Handle) Keys() []Key {
	return append([]Key(nil), h.ks.Keys...)
}

// Annotations returns the monitoring annotations, or nil if none were set.
func (h *Handle) Annotations() map[string]string {
	if len(h.annotations) == 0 {
		return nil
	}
	cp := make(map[string]string, len(h.annotations))
	for k, v := range h.annotations {
		cp[k] = v
	}
	return cp
}
