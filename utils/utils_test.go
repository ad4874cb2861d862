package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	t.Run("ShortStringIsUntouched", func(t *testing.T) {
		assert.Equal(t, "hello", TruncateRunes("hello", 80))
	})

	t.Run("ExactLengthIsUntouched", func(t *testing.T) {
		s := strings.Repeat("a", 80)
		assert.Equal(t, s, TruncateRunes(s, 80))
	})

	t.Run("LongStringGetsEllipsis", func(t *testing.T) {
		s := strings.Repeat("a", 100)
		got := TruncateRunes(s, 80)
		assert.Equal(t, strings.Repeat("a", 80)+"...", got)
	})

	t.Run("MultiByteRunesStayIntact", func(t *testing.T) {
		s := strings.Repeat("é", 100)
		got := TruncateRunes(s, 80)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("é", 80)+"...", got)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_done\\`, EscapeLike(`100% _done\`))
}
