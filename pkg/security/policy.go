package security

import (
	"strings"
	"unicode"
)

const (
	MinPasswordLength   = 8
	maxSimilarity       = 0.7
	minAttributePartLen = 3
)

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range []string{
		"password", "password1", "password123", "passw0rd", "12345678", "123456789",
		"1234567890", "qwerty123", "qwertyuiop", "iloveyou", "sunshine", "princess",
		"football", "baseball", "welcome1", "admin123", "letmein1", "trustno1",
		"abc12345", "11111111", "00000000", "superman", "starwars", "whatever",
		"dragon12", "monkey123", "computer", "internet", "michelle", "jennifer",
		"qwerty12", "1q2w3e4r", "zaq12wsx", "asdfghjk", "changeme", "mustang1",
	} {
		commonPasswords[p] = struct{}{}
	}
}

// PasswordAttributes are the account fields a password must not resemble.
type PasswordAttributes struct {
	Email     string
	FirstName string
	LastName  string
}

// CheckPassword applies the registration password policy and returns one
// human-readable message per failed rule. An empty result means acceptable.
func CheckPassword(password string, attrs PasswordAttributes) []string {
	var problems []string

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "this password is too short; it must contain at least 8 characters")
	}
	if _, common := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; common {
		problems = append(problems, "this password is too common")
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, "this password is entirely numeric")
	}
	if attr, similar := similarAttribute(password, attrs); similar {
		problems = append(problems, "the password is too similar to the "+attr)
	}
	return problems
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func similarAttribute(password string, attrs PasswordAttributes) (string, bool) {
	lowered := strings.ToLower(password)
	for _, candidate := range []struct {
		name  string
		value string
	}{
		{"email", attrs.Email},
		{"first name", attrs.FirstName},
		{"last name", attrs.LastName},
	} {
		value := strings.ToLower(strings.TrimSpace(candidate.value))
		if value == "" {
			continue
		}
		parts := append([]string{value}, splitWords(value)...)
		for _, part := range parts {
			if len(part) < minAttributePartLen {
				continue
			}
			if similarity(lowered, part) >= maxSimilarity {
				return candidate.name, true
			}
		}
	}
	return "", false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// similarity is the Ratcliff/Obershelp ratio 2*M/T over runes.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestCommon(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

func longestCommon(a, b []rune) (int, int, int) {
	bestA, bestB, bestLen := 0, 0, 0
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestLen {
					bestLen = cur[j]
					bestA, bestB = i-bestLen, j-bestLen
				}
			}
		}
		prev = cur
	}
	return bestA, bestB, bestLen
}

// PasswordHints describes the policy enforced by CheckPassword, for forms.
func PasswordHints() []string {
	return []string{
		"your password must contain at least 8 characters",
		"your password can't be entirely numeric",
		"your password can't be a commonly used password",
		"your password can't be too similar to your other personal information",
	}
}
