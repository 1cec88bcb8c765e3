// Package post applies per-platform constraints to generated text: hashtag
// injection and last-resort truncation. Everything here is a pure transform;
// length policy never feeds back into generation.
package post

import (
	"strings"
	"unicode"

	"github.com/roivaz/buildpost/internal/prompt"
)

const (
	// At most this many of the platform's default hashtags are appended.
	maxAppendedHashtags = 3
	ellipsis            = '…'
)

// Format produces the final postable string. Hashtags are appended only when
// the text has none and the result still fits; if appending would overflow,
// the tags are dropped rather than the content. Text over the limit is
// truncated at a whitespace boundary with one rune reserved for the
// ellipsis. Format never fails; an impossible max_length yields "".
func Format(generated string, platform prompt.Platform, includeHashtags bool) string {
	text := strings.TrimSpace(generated)
	max := int(platform.MaxLength)

	if includeHashtags && !containsHashtag(text) {
		if tagged := appendHashtags(text, platform.DefaultHashtags); len([]rune(tagged)) <= max {
			text = tagged
		}
	}
	return truncate(text, max)
}

func containsHashtag(text string) bool {
	for _, field := range strings.Fields(text) {
		if len(field) > 1 && strings.HasPrefix(field, "#") {
			return true
		}
	}
	return false
}

func appendHashtags(text string, tags []string) string {
	if len(tags) > maxAppendedHashtags {
		tags = tags[:maxAppendedHashtags]
	}
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		normalized = append(normalized, tag)
	}
	if len(normalized) == 0 {
		return text
	}
	return text + "\n\n" + strings.Join(normalized, " ")
}

// truncate cuts on runes, never mid-character, and steps back to the last
// whitespace so no token (hashtags included) is split. Already-compliant
// text passes through untouched.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max < 2 {
		return ""
	}
	cut := runes[:max-1]

	boundary := -1
	for i, r := range cut {
		if unicode.IsSpace(r) {
			boundary = i
		}
	}
	if boundary > 0 {
		cut = cut[:boundary]
	} else if idx := lastIndexRune(cut, '#'); idx >= 0 {
		// Single unbroken token starting a hashtag: drop the partial tag.
		cut = cut[:idx]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + string(ellipsis)
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
