package prefix

import (
	"bytes"
	"testing"

	"github.com/cipherset/cipherset-go/keyset"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		prefixType keyset.PrefixType
		keyID      uint32
		want       []byte
	}{
		{
			name:       "raw has no prefix",
			prefixType: keyset.PrefixRaw,
			keyID:      1234,
			want:       nil,
		},
		{
			name:       "standard",
			prefixType: keyset.PrefixStandard,
			keyID:      1234,
			want:       []byte{0x01, 0x00, 0x00, 0x04, 0xD2},
		},
		{
			name:       "legacy",
			prefixType: keyset.PrefixLegacy,
			keyID:      1234,
			want:       []byte{0x00, 0x00, 0x00, 0x04, 0xD2},
		},
		{
			name:       "crunchy matches legacy",
			prefixType: keyset.PrefixCrunchy,
			keyID:      1234,
			want:       []byte{0x00, 0x00, 0x00, 0x04, 0xD2},
		},
		{
			name:       "big-endian across all four bytes",
			prefixType: keyset.PrefixStandard,
			keyID:      0xA1B2C3D4,
			want:       []byte{0x01, 0xA1, 0xB2, 0xC3, 0xD4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.prefixType, tt.keyID)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Compute() = %x, want %x", got, tt.want)
			}
			if tt.want != nil && len(got) != NonRawSize {
				t.Errorf("len(prefix) = %d, want %d", len(got), NonRawSize)
			}
		})
	}
}

func TestComputeUnknownType(t *testing.T) {
	if _, err := Compute(keyset.PrefixUnknown, 1); err == nil {
		t.Error("Compute(PrefixUnknown) error = nil, want error")
	}
}
