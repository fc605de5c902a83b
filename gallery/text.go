package gallery

import "strings"

// TruncateWords is the description length, in words, above which a card
// shows a shortened description with a read more toggle.
const TruncateWords = 15

// Ellipsis ends a truncated description.
const Ellipsis = "..."

// Excerpt returns the first TruncateWords words of s followed by Ellipsis,
// and whether s was long enough to be shortened at all.
func Excerpt(s string) (string, bool) {
	words := strings.Fields(s)
	if len(words) <= TruncateWords {
		return s, false
	}
	return strings.Join(words[:TruncateWords], " ") + Ellipsis, true
}
