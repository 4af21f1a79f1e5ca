package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterString(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		s := LetterString(12)
		assert.Len(t, s, 12)
		for _, r := range s {
			assert.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'), "unexpected rune %q", r)
		}
		seen[s] = struct{}{}
	}
	assert.True(t, len(seen) > 1)
}

func benchmarkLetterBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = LetterBytes(size)
	}
}

func BenchmarkLetterBytes20(b *testing.B)  { benchmarkLetterBytes(b, 20) }
func BenchmarkLetterBytes100(b *testing.B) { benchmarkLetterBytes(b, 100) }
