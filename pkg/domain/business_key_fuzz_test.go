package domain

import (
	"strings"
	"testing"
)

// FuzzNormalizeBusinessKey checks the structural invariants of the key for
// arbitrary input: only [a-z0-9-], no leading/trailing/double hyphens, and
// idempotence when the key is fed back in as a name.
func FuzzNormalizeBusinessKey(f *testing.F) {
	f.Add("Mario's Pizza", "Austin, TX")
	f.Add("", "")
	f.Add("'; DROP TABLE audit_records;--", "x")
	f.Add(string([]byte{0xff, 0xfe, 0x00}), "Zürich")
	f.Add("---", "---")

	f.Fuzz(func(t *testing.T, business, location string) {
		key := NormalizeBusinessKey(business, location).String()

		for _, r := range key {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Fatalf("unexpected rune %q in key %q", r, key)
			}
		}
		if strings.HasPrefix(key, "-") || strings.HasSuffix(key, "-") {
			t.Fatalf("key %q has edge hyphen", key)
		}
		if strings.Contains(key, "--") {
			t.Fatalf("key %q has repeated hyphen", key)
		}
		if again := NormalizeBusinessKey(key, "").String(); again != key {
			t.Fatalf("normalization not idempotent: %q -> %q", key, again)
		}
	})
}
