// Package validation holds the portal's input acceptance rules as pure
// predicates. They are advisory gates: callers invoke them before mutating
// operations, the domain entities never self-validate.
package validation

import (
	"regexp"
	"strings"
)

const minAddressLength = 15

var (
	emailRe = regexp.MustCompile(`(?i)^[^\s@]+@(gmail|ukr|yahoo|outlook|meta)\.(com|ua|net)$`)
	phoneRe = regexp.MustCompile(`^\+380\d{9}$`)
	digitRe = regexp.MustCompile(`\d`)
	latinRe = regexp.MustCompile(`[a-zA-Z]`)

	// Capitalized Ukrainian word: uppercase first letter, lowercase rest,
	// apostrophes allowed (Мар'яна).
	nameWordRe = regexp.MustCompile(`^[А-ЯІЇЄҐ][а-яіїєґ']+$`)

	ukrLetterRe = regexp.MustCompile(`[а-яіїєґА-ЯІЇЄҐ]`)

	// Street-type keywords accepted in an address, with or without the
	// trailing period.
	streetKeywordRe = regexp.MustCompile(`(?i)(вул\.?|вулиця|пров\.?|провулок|просп\.?|проспект|бульв\.?|бульвар|площа|майдан)`)
)

// Email accepts local@provider.tld for the supported providers only.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Phone accepts Ukrainian mobile numbers: +380 followed by exactly 9 digits.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// Password requires at least 6 characters with at least one digit and one
// Latin letter.
func Password(s string) bool {
	return len(s) >= 6 && digitRe.MatchString(s) && latinRe.MatchString(s)
}

// FullName requires exactly three whitespace-separated capitalized Ukrainian
// words (surname, given name, patronymic).
func FullName(s string) bool {
	words := strings.Fields(strings.TrimSpace(s))
	if len(words) != 3 {
		return false
	}
	for _, w := range words {
		if !nameWordRe.MatchString(w) {
			return false
		}
	}
	return true
}

// Address requires a minimum length, at least one Ukrainian letter, at least
// one digit (house number) and a street-type keyword.
func Address(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len([]rune(trimmed)) < minAddressLength {
		return false
	}
	if !ukrLetterRe.MatchString(trimmed) {
		return false
	}
	if !digitRe.MatchString(trimmed) {
		return false
	}
	return streetKeywordRe.MatchString(trimmed)
}
