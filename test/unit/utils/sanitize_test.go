package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storelaunch/storelaunch/internal/utils"
)

func TestSanitize_StripsAngleBrackets(t *testing.T) {
	out := utils.Sanitize("<script>alert(1)</script>", 255)
	require.NotContains(t, out, "<")
	require.NotContains(t, out, ">")
	require.Equal(t, "scriptalert(1)/script", out)
}

func TestSanitize_EscapesQuotes(t *testing.T) {
	out := utils.Sanitize(`a "quoted" 'word'`, 255)
	require.NotContains(t, out, `"`)
	require.NotContains(t, out, "'")
	require.Contains(t, out, "&quot;quoted&quot;")
	require.Contains(t, out, "&#39;word&#39;")
}

func TestSanitize_TrimsWhitespace(t *testing.T) {
	require.Equal(t, "hello", utils.Sanitize("  hello  ", 255))
}

func TestSanitize_TruncatesByRunes(t *testing.T) {
	out := utils.Sanitize(strings.Repeat("é", 300), 255)
	require.Equal(t, 255, len([]rune(out)))
}

func TestSanitize_ZeroMaxUsesDefault(t *testing.T) {
	out := utils.Sanitize(strings.Repeat("a", 300), 0)
	require.Equal(t, utils.DefaultSanitizeLength, len(out))
}
