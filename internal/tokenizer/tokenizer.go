package tokenizer

import (
	"regexp"
	"strings"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// minTokenLength drops the single-character fragments left over after
// punctuation splitting (initials, apostrophe remnants).
const minTokenLength = 2

// Tokenize converts metadata text into a slice of lowercase word tokens.
// It lowercases the text, splits by non-alphanumeric characters, and drops
// English stopwords and tokens shorter than two characters.
func Tokenize(text string) []string {
	lowerText := strings.ToLower(text)
	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if len(s) < minTokenLength {
			continue
		}
		if _, stop := stopwords[s]; stop {
			continue
		}
		tokens = append(tokens, s)
	}
	return tokens
}
