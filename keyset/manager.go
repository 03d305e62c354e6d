package keyset

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Manager builds and rotates keysets. It is the mutable counterpart of
// [Handle]: keys are added, enabled, disabled, destroyed and promoted here,
// and a frozen Handle is taken whenever the current state should be used.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	ks Keyset
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// NewManagerFromHandle returns a Manager seeded with the handle's keyset,
// for rotating an existing keyset.
func NewManagerFromHandle(h *Handle) *Manager {
	return &Manager{ks: Keyset{
		PrimaryID: h.ks.PrimaryID,
		Keys:      append([]Key(nil), h.ks.Keys...),
	}}
}

// Add appends a new enabled key with fresh material and a random unused ID,
// and returns the ID. The first key added becomes the primary.
func (m *Manager) Add(data *KeyData, prefix PrefixType) (uint32, error) {
	if data == nil {
		return 0, fmt.Errorf("%w: nil key data", ErrInvalidKeyset)
	}
	switch prefix {
	case PrefixRaw, PrefixStandard, PrefixLegacy, PrefixCrunchy:
	default:
		return 0, fmt.Errorf("%w: unknown prefix type", ErrInvalidKeyset)
	}
	id, err := m.newKeyID()
	if err != nil {
		return 0, err
	}
	m.ks.Keys = append(m.ks.Keys, Key{
		ID:     id,
		Status: StatusEnabled,
		Prefix: prefix,
		Data:   data,
	})
	if len(m.ks.Keys) == 1 {
		m.ks.PrimaryID = id
	}
	return id, nil
}

// Rotate adds a new key and promotes it to primary in one step.
func (m *Manager) Rotate(data *KeyData, prefix PrefixType) (uint32, error) {
	id, err := m.Add(data, prefix)
	if err != nil {
		return 0, err
	}
	if err := m.SetPrimary(id); err != nil {
		return 0, err
	}
	return id, nil
}

// SetPrimary promotes the key with the given ID. The key must be enabled.
func (m *Manager) SetPrimary(id uint32) error {
	k, err := m.ks.Key(id)
	if err != nil {
		return err
	}
	if k.Status != StatusEnabled {
		return fmt.Errorf("%w: key %d is %s", ErrBadPrimary, id, k.Status)
	}
	m.ks.PrimaryID = id
	return nil
}

// Enable re-enables a disabled key. Destroyed keys cannot be enabled.
func (m *Manager) Enable(id uint32) error {
	return m.setStatus(id, StatusEnabled)
}

// Disable marks a key as disabled. The primary cannot be disabled; promote
// another key first.
func (m *Manager) Disable(id uint32) error {
	if id == m.ks.PrimaryID {
		return fmt.Errorf("%w: cannot disable the primary key %d", ErrBadPrimary, id)
	}
	return m.setStatus(id, StatusDisabled)
}

// Destroy drops a key's material and marks it destroyed. The record and its
// ID remain in the keyset. The primary cannot be destroyed.
func (m *Manager) Destroy(id uint32) error {
	if id == m.ks.PrimaryID {
		return fmt.Errorf("%w: cannot destroy the primary key %d", ErrBadPrimary, id)
	}
	for i := range m.ks.Keys {
		if m.ks.Keys[i].ID == id {
			m.ks.Keys[i].Status = StatusDestroyed
			m.ks.Keys[i].Data = nil
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNoSuchKey, id)
}

// Handle validates the current state and returns a frozen view of it.
func (m *Manager) Handle(opts ...HandleOption) (*Handle, error) {
	return NewHandle(&m.ks, opts...)
}

func (m *Manager) setStatus(id uint32, status KeyStatus) error {
	for i := range m.ks.Keys {
		if m.ks.Keys[i].ID == id {
			if m.ks.Keys[i].Status == StatusDestroyed {
				return fmt.Errorf("%w: key %d is destroyed", ErrInvalidKeyset, id)
			}
			m.ks.Keys[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNoSuchKey, id)
}

// newKeyID draws random 32-bit IDs until one unused in this keyset is found.
// Zero is skipped so that an ID is never mistaken for an unset value.
func (m *Manager) newKeyID() (uint32, error) {
	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("keyset: generate key ID: %w", err)
		}
		id := binary.BigEndian.Uint32(buf[:])
		if id == 0 {
			continue
		}
		if _, err := m.ks.Key(id); err == nil {
			continue
		}
		return id, nil
	}
}
