// Package netid formats and checks institutional NetIDs: three letters
// followed by up to five digits, e.g. ABC12345.
package netid

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// Letters is the number of leading letters in a NetID.
	Letters = 3
	// MaxDigits is the maximum number of trailing digits.
	MaxDigits = 5
	// MaxLen is the longest valid NetID.
	MaxLen = Letters + MaxDigits
)

var pattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{0,5}$`)

// Mask turns whatever was typed into the NetID field into the value that is
// committed: the first three letters upper-cased, then the first five digits.
// Digits are only kept once all three letters are present, so the letter
// positions never hold a digit. Mask is idempotent.
func Mask(raw string) string {
	var letters, digits strings.Builder
	nLetters, nDigits := 0, 0

	for _, r := range raw {
		switch {
		case r <= unicode.MaxASCII && unicode.IsLetter(r):
			if nLetters < Letters {
				letters.WriteRune(unicode.ToUpper(r))
				nLetters++
			}
		case r >= '0' && r <= '9':
			if nDigits < MaxDigits {
				digits.WriteRune(r)
				nDigits++
			}
		}
	}

	if nLetters < Letters {
		return letters.String()
	}
	return letters.String() + digits.String()
}

// Valid reports whether s is already a well-formed NetID.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
