package utils

import (
	"strings"
	"testing"
)

func TestGenerateReference_Format(t *testing.T) {
	ref := GenerateReference(42)
	if !strings.HasPrefix(ref, "RWD-") {
		t.Fatalf("reference should carry the RWD prefix, got %s", ref)
	}
	if !strings.HasSuffix(ref, "42") {
		t.Fatalf("reference should end with the user id, got %s", ref)
	}
}

func TestGenerateReference_NoImmediateRepeat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateReference(7)
		if seen[ref] {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = true
	}
}
