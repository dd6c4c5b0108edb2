package search

import (
	"strings"
	"unicode"
)

// Highlight returns a window of at most maxLen runes of content around the first occurrence of
// any query term, matched case-insensitively. Cut ends are marked with "...". Without a match
// the window starts at the beginning. maxLen <= 0 returns content unchanged.
func Highlight(content, query string, maxLen int) string {
	runes := []rune(content)
	if maxLen <= 0 || len(runes) <= maxLen {
		return content
	}

	start := 0
	if pos := firstTermRune(content, query); pos > 0 {
		// Leave a little leading context before the match.
		start = pos - maxLen/4
		if start < 0 {
			start = 0
		}
		if start+maxLen > len(runes) {
			start = len(runes) - maxLen
		}
	}
	end := start + maxLen

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(strings.TrimFunc(string(runes[start:end]), unicode.IsSpace))
	if end < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}

// firstTermRune returns the rune offset of the earliest query term in content, or -1.
func firstTermRune(content, query string) int {
	lower := []rune(strings.ToLower(content))
	best := -1
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if pos := runeIndex(lower, []rune(term)); pos >= 0 && (best < 0 || pos < best) {
			best = pos
		}
	}
	return best
}

func runeIndex(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
