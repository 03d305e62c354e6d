package mac

import (
	cipherset "github.com/cipherset/cipherset-go"
	"github.com/cipherset/cipherset-go/internal/prefix"
	"github.com/cipherset/cipherset-go/internal/primitiveset"
	"github.com/cipherset/cipherset-go/keyset"
	"github.com/cipherset/cipherset-go/monitoring"
)

// Wrapper converts a MAC primitive set into a single cipherset.MAC.
type Wrapper struct{}

// Kind returns cipherset.KindMAC.
func (*Wrapper) Kind() cipherset.Kind {
	return cipherset.KindMAC
}

// Wrap wraps the set. The set may lack a primary; ComputeMAC on the result
// then fails with cipherset.ErrNoPrimary while VerifyMAC still works.
func (*Wrapper) Wrap(set *primitiveset.Set[cipherset.MAC], client monitoring.Client) (cipherset.MAC, error) {
	info := cipherset.MonitoringKeysetInfo(set)
	computeLogger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "mac",
		APIFunction: "compute",
		KeysetInfo:  info,
	})
	if err != nil {
		return nil, err
	}
	verifyLogger, err := monitoring.NewLogger(client, &monitoring.Context{
		Primitive:   "mac",
		APIFunction: "verify",
		KeysetInfo:  info,
	})
	if err != nil {
		return nil, err
	}
	return &wrappedMAC{set: set, computeLogger: computeLogger, verifyLogger: verifyLogger}, nil
}

type wrappedMAC struct {
	set           *primitiveset.Set[cipherset.MAC]
	computeLogger monitoring.Logger
	verifyLogger  monitoring.Logger
}

// Compile-time interface check.
var _ cipherset.MAC = (*wrappedMAC)(nil)

// ComputeMAC computes a tag over data with the primary key and returns the
// primary's output prefix followed by the tag.
func (m *wrappedMAC) ComputeMAC(data []byte) ([]byte, error) {
	primary := m.set.Primary()
	if primary == nil {
		return nil, cipherset.ErrNoPrimary
	}
	if primary.PrefixType == keyset.PrefixLegacy {
		data = appendZeroByte(data)
	}
	tag, err := primary.Primitive.ComputeMAC(data)
	if err != nil {
		m.computeLogger.LogFailure()
		return nil, err
	}
	m.computeLogger.Log(primary.KeyID, len(data))
	if len(primary.OutputPrefix) == 0 {
		return tag, nil
	}
	out := make([]byte, 0, len(primary.OutputPrefix)+len(tag))
	out = append(out, primary.OutputPrefix...)
	return append(out, tag...), nil
}

// VerifyMAC reports whether mac is a valid tag over data under any key of
// the set. Tags no longer than the output-prefix size are rejected outright:
// they are structurally invalid, and accepting trivially short raw tags
// would be unsafe. Per-key failures are swallowed; if nothing verifies the
// error is the generic cipherset.ErrInvalidMAC.
func (m *wrappedMAC) VerifyMAC(mac, data []byte) error {
	if len(mac) <= prefix.NonRawSize {
		m.verifyLogger.LogFailure()
		return cipherset.ErrInvalidMAC
	}

	candidate := mac[:prefix.NonRawSize]
	tag := mac[prefix.NonRawSize:]
	for _, e := range m.set.EntriesForPrefix(candidate) {
		d := data
		if e.PrefixType == keyset.PrefixLegacy {
			d = appendZeroByte(data)
		}
		if err := e.Primitive.VerifyMAC(tag, d); err == nil {
			m.verifyLogger.Log(e.KeyID, len(d))
			return nil
		}
	}

	for _, e := range m.set.RawEntries() {
		if err := e.Primitive.VerifyMAC(mac, data); err == nil {
			m.verifyLogger.Log(e.KeyID, len(data))
			return nil
		}
	}

	m.verifyLogger.LogFailure()
	return cipherset.ErrInvalidMAC
}

// appendZeroByte returns data plus a trailing zero byte without mutating the
// caller's slice.
func appendZeroByte(data []byte) []byte {
	out := make([]byte, 0, len(data)+1)
	out = append(out, data...)
	return append(out, 0)
}
