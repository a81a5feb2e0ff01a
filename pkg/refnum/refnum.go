// Package refnum generates the human-facing order and invoice numbers.
package refnum

import (
	"strings"

	"github.com/google/uuid"
)

const (
	OrderPrefix   = "EE"
	InvoicePrefix = "INV"

	suffixLen = 8
)

// Generator returns a fresh reference number for prefix.
type Generator func(prefix string) string

// New returns prefix followed by eight uppercase hex characters drawn from a
// random UUID. Uniqueness is enforced by the database, not here.
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:suffixLen])
}

// Valid reports whether value has the shape produced by New for prefix.
func Valid(prefix, value string) bool {
	if !strings.HasPrefix(value, prefix) {
		return false
	}
	suffix := value[len(prefix):]
	if len(suffix) != suffixLen {
		return false
	}
	for _, r := range suffix {
		if !(r >= '0' && r <= '9') && !(r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

// Sequence returns a Generator that replays values in order, then falls back
// to New. Used to force collisions in tests and fixtures.
func Sequence(values ...string) Generator {
	next := 0
	return func(prefix string) string {
		for next < len(values) {
			v := values[next]
			next++
			if strings.HasPrefix(v, prefix) {
				return v
			}
		}
		return New(prefix)
	}
}
