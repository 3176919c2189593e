package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_Length(t *testing.T) {
	t.Parallel()

	s, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("unexpected length: got %d want 64", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("result is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s, err := MakeRandHexString(16)
		if err != nil {
			t.Fatalf("MakeRandHexString error: %v", err)
		}
		if _, ok := seen[s]; ok {
			t.Fatalf("duplicate value generated: %s", s)
		}
		seen[s] = struct{}{}
	}
}
