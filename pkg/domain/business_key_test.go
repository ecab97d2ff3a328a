package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeBusinessKey_Pinned fixes the canonical form so any change to
// the normalization rule shows up as a failing test, not as a silently
// re-opened free audit for every existing business.
func TestNormalizeBusinessKey_Pinned(t *testing.T) {
	tests := []struct {
		name     string
		business string
		location string
		want     BusinessKey
	}{
		{"apostrophe and comma", "Mario's Pizza", "Austin, TX", "marios-pizza-austin-tx"},
		{"trailing punctuation", "Joe's Pizza!", "Salt Lake City, UT", "joes-pizza-salt-lake-city-ut"},
		{"typographic apostrophe", "Mario’s Pizza", "Austin, TX", "marios-pizza-austin-tx"},
		{"leading and trailing separators", "  --Acme Co.--  ", "  Boise, ID  ", "acme-co-boise-id"},
		{"digits kept", "7-Eleven #1042", "Dallas TX 75201", "7-eleven-1042-dallas-tx-75201"},
		{"ampersand is a separator", "Smith & Sons", "Reno", "smith-sons-reno"},
		{"empty location", "Acme", "", "acme"},
		{"empty business", "", "Austin, TX", "austin-tx"},
		{"both empty", "", "", ""},
		{"only punctuation", "!!!", "...", ""},
		{"non-ascii letters separate", "Café Olé", "Montréal", "caf-ol-montr-al"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBusinessKey(tt.business, tt.location))
		})
	}
}

func TestNormalizeBusinessKey_CaseAndPunctuationInsensitive(t *testing.T) {
	a := NormalizeBusinessKey("Joe's Pizza!", "Salt Lake City, UT")
	b := NormalizeBusinessKey("joes pizza", "salt lake city ut")
	c := NormalizeBusinessKey("JOES   PIZZA", "Salt-Lake-City / UT")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestNormalizeBusinessKey_Deterministic(t *testing.T) {
	first := NormalizeBusinessKey("Blue Bottle Coffee", "Oakland, CA")
	for range 100 {
		assert.Equal(t, first, NormalizeBusinessKey("Blue Bottle Coffee", "Oakland, CA"))
	}
}

func TestBusinessKey_IsZero(t *testing.T) {
	assert.True(t, NormalizeBusinessKey("", " , ").IsZero())
	assert.False(t, NormalizeBusinessKey("Acme", "").IsZero())
}
