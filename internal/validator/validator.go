package validator

import (
	"regexp"
	"strconv"
	"strings"
)

// Stateless input predicates for the intake flow. Pure input -> bool, no side
// effects. Name and symptom checks accept Latin, Devanagari and Arabic
// scripts so Hindi and Marathi input passes.
var (
	namePattern      = regexp.MustCompile(`^[a-zA-Z\x{0900}-\x{097F}\x{0600}-\x{06FF}\s.\-']{2,50}$`)
	phonePattern     = regexp.MustCompile(`^(\+91)?[6-9]\d{9}$`)
	phoneSeparators  = regexp.MustCompile(`[\s\-()]`)
	letterPattern    = regexp.MustCompile(`[a-zA-Z\x{0900}-\x{097F}\x{0600}-\x{06FF}]`)
	controlRunes     = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	allDigitsPattern = regexp.MustCompile(`^\d+$`)
)

// Name reports whether s is a plausible person name: 2-50 characters from the
// permitted scripts plus space/dot/hyphen/apostrophe, not all digits, and at
// least two non-space characters.
func Name(s string) bool {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 2 || len([]rune(s)) > 50 {
		return false
	}
	if !namePattern.MatchString(s) {
		return false
	}
	if allDigitsPattern.MatchString(s) {
		return false
	}
	return len([]rune(strings.ReplaceAll(s, " ", ""))) >= 2
}

// Age reports whether s is an integer in [1,120].
func Age(s string) bool {
	s = strings.TrimSpace(s)
	if !allDigitsPattern.MatchString(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 120
}

// Phone reports whether s is a 10-digit Indian mobile number (first digit
// 6-9), optionally prefixed with +91. Spaces, hyphens and parentheses are
// stripped before matching.
func Phone(s string) bool {
	cleaned := phoneSeparators.ReplaceAllString(strings.TrimSpace(s), "")
	return phonePattern.MatchString(cleaned)
}

// Symptoms reports whether s is a usable symptom description: 5-1000
// characters containing at least one letter from a permitted script.
func Symptoms(s string) bool {
	s = strings.TrimSpace(s)
	n := len([]rune(s))
	if n < 5 || n > 1000 {
		return false
	}
	return letterPattern.MatchString(s)
}

// LanguageCode reports whether code is one of the supported language codes.
func LanguageCode(code string) bool {
	switch code {
	case "en", "hi", "mr":
		return true
	}
	return false
}

// Gender reports whether g is one of the closed set of gender options.
func Gender(g string) bool {
	switch strings.ToLower(g) {
	case "male", "female", "other":
		return true
	}
	return false
}

// Sanitize strips control characters (keeping newlines and tabs) and caps the
// result at 1000 runes.
func Sanitize(s string) string {
	s = controlRunes.ReplaceAllString(s, "")
	if r := []rune(s); len(r) > 1000 {
		s = string(r[:1000])
	}
	return strings.TrimSpace(s)
}
