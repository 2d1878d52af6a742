// Package textutils provides the text canonicalization used by every matching step.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cardPrefixes are boilerplate lead-ins banks put in front of card purchases.
// They are matched against normalized text, longest first.
var cardPrefixes = []string{
	"compra cartao de credito",
	"compra cartao de debito",
	"compra com cartao",
	"compra cartao credito",
	"compra cartao debito",
	"compra no credito",
	"compra no debito",
	"compra cartao",
	"pagamento com cartao",
	"pagamento cartao",
	"pag cartao",
	"debito visa electron",
	"compra elo debito",
	"compra maestro",
}

// Normalize lower-cases text, strips diacritics, replaces every character outside
// [a-z0-9] and whitespace with a space, collapses whitespace runs and trims.
// It never fails: empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded := stripDiacritics(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// StripCardPrefix removes a leading card-transaction boilerplate phrase from
// already-normalized text.
func StripCardPrefix(normalized string) string {
	for _, prefix := range cardPrefixes {
		if normalized == prefix {
			return ""
		}
		if strings.HasPrefix(normalized, prefix+" ") {
			return strings.TrimSpace(normalized[len(prefix):])
		}
	}
	return normalized
}

// NormalizeAll normalizes each entry and drops the ones that end up empty.
func NormalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func stripDiacritics(s string) string {
	// transformers carry state, so a fresh chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
