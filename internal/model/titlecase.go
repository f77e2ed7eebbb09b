package model

import (
	"strings"
	"unicode"
)

// TitleCase splits label on runs of non-alphanumeric characters,
// capitalizes each token's first rune, and joins with single spaces.
// Used to derive canonical property keys from "Label: value" lines
// (§4.3.5) and from worker trailing-text annotations (§4.3.3).
func TitleCase(label string) string {
	tokens := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, tok := range tokens {
		runes := []rune(tok)
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}
