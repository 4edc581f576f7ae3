package registration

import (
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 8

// charClasses records which kinds of characters a password contains
type charClasses struct {
	digit, upper, lower, special bool
}

func classify(p string) charClasses {
	var c charClasses
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			c.digit = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		default:
			c.special = true
		}
	}
	return c
}

// PasswordStrength scores p from 0 to 4, one point each for length,
// mixed case, a digit and a special character.
func PasswordStrength(p string) int {
	classes := classify(p)

	score := 0
	if utf8.RuneCountInString(p) >= minPasswordLength {
		score++
	}
	if classes.upper && classes.lower {
		score++
	}
	if classes.digit {
		score++
	}
	if classes.special {
		score++
	}
	return score
}

// StrengthLabel names a PasswordStrength score
func StrengthLabel(score int) string {
	switch {
	case score <= 1:
		return "weak"
	case score == 2:
		return "fair"
	case score == 3:
		return "good"
	default:
		return "strong"
	}
}
