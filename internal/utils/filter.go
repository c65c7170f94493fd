package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

// isWordRune accepts letters and combining marks. WX text is plain Latin
// letters, where case is significant, and native Kannada text needs the
// vowel signs and virama.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Mn, unicode.Mc) || r == '\u200c' || r == '\u200d'
}

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains anything other than
// word runes and separators
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !isWordRune(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive reports whether s is one rune repeated three or more times
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput checks if a word is worth looking up. It rejects numbers,
// punctuation, separators and repetitive strings, and words whose rune
// length lies outside [minLen, maxLen]. A bound <= 0 is not checked.
func IsValidInput(s string, minLen, maxLen int) bool {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return false
	}
	if (minLen > 0 && n < minLen) || (maxLen > 0 && n > maxLen) {
		return false
	}
	if ContainsNumbers(s) || IsRepetitive(s) {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}
