package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTitle(t *testing.T) {
	forty := strings.Repeat("a", 40)
	twenty := strings.Repeat("b", 20)
	thirty := strings.Repeat("c", 30)

	assert.Equal(t, strings.Repeat("a", 30)+"...", TruncateTitle(forty))
	assert.Equal(t, twenty, TruncateTitle(twenty))
	assert.Equal(t, thirty, TruncateTitle(thirty))
	assert.Equal(t, "", TruncateTitle(""))
}

func TestTruncateTitleCountsRunes(t *testing.T) {
	gujarati := strings.Repeat("રેશન ", 10) // 50 runes

	got := TruncateTitle(gujarati)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, TitleLimit+len(titleEllipsis), utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, titleEllipsis))
}
