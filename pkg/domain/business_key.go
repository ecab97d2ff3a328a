package domain

import "strings"

// BusinessKey is the canonical identifier of a business, derived from its name
// and location. It is computed on demand and never stored on its own.
type BusinessKey string

// String returns the key as stored alongside audit records.
func (k BusinessKey) String() string {
	return string(k)
}

// IsZero reports whether the key carries no identifying characters.
func (k BusinessKey) IsZero() bool {
	return k == ""
}

// NormalizeBusinessKey maps (businessName, location) to a BusinessKey.
//
// ASCII letters are lowercased and apostrophes are dropped, so "Mario's" and
// "marios" agree. Every other run of characters outside [a-z0-9] collapses into
// one hyphen, the name/location boundary counts as such a run, and no hyphen
// is emitted at either end. Non-ASCII letters are separators; the mapping is
// locale-free and identical across processes.
func NormalizeBusinessKey(businessName, location string) BusinessKey {
	n := keyNormalizer{}
	n.write(businessName)
	n.pendingSep = true
	n.write(location)
	return BusinessKey(n.b.String())
}

type keyNormalizer struct {
	b          strings.Builder
	pendingSep bool
}

func (n *keyNormalizer) write(s string) {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		case isApostrophe(r):
			continue
		default:
			n.pendingSep = true
			continue
		}
		if n.pendingSep && n.b.Len() > 0 {
			n.b.WriteByte('-')
		}
		n.pendingSep = false
		n.b.WriteRune(r)
	}
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '`', '‘', '’', 'ʼ':
		return true
	}
	return false
}
