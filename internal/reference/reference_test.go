package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Format(t *testing.T) {
	ref := New()
	assert.True(t, Valid(ref), "generated reference %q should match the format", ref)
}

func TestNew_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		ref := New()
		assert.True(t, Valid(ref), "reference %q should match the format", ref)
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %q after %d generations", ref, i)
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestNew_SuffixUniform(t *testing.T) {
	const rounds = 30000
	counts := make(map[byte]int, len(alphabet))
	for i := 0; i < rounds; i++ {
		ref := New()
		for _, ch := range []byte(ref[len(ref)-suffixLength:]) {
			counts[ch]++
		}
	}

	// a byte-modulo mapping would overrepresent the first 256%36 symbols by
	// 25%; a uniform draw stays well within 15% of the expectation
	expected := float64(rounds*suffixLength) / float64(len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		ch := alphabet[i]
		assert.InDelta(t, expected, float64(counts[ch]), expected*0.15,
			"suffix symbol %q frequency should be near uniform", string(ch))
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("FBMJ3K2L1XQZ"))
	assert.False(t, Valid("XX12345"))
	assert.False(t, Valid("FB"))
	assert.False(t, Valid("fbmj3k2l1xqz"))
	assert.False(t, Valid(""))
}
