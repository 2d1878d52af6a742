// Package currencyutils parses and formats money amounts written in the
// Brazilian and US conventions.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank input.
var ErrEmptyAmount = errors.New("amount is empty")

var currencyNoise = regexp.MustCompile(`(?i)R\$|US\$|BRL|USD|EUR|[€$£\s\x{00A0}]`)

// ParseAmount parses amounts such as "1.234,56", "-1,234.56", "R$ 65,90",
// "(42,00)" or "1234". Parentheses mark a negative amount.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(amountStr)
	if trimmed == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	standardized := StandardizeAmount(trimmed)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites an amount into the form decimal.NewFromString
// accepts: no currency markers, no thousands separators, '.' as decimal mark.
func StandardizeAmount(amountStr string) string {
	s := currencyNoise.ReplaceAllString(amountStr, "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot < lastComma {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		// 1.234.567
		s = strings.ReplaceAll(s, ".", "")
	}

	if negative && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatAmount renders an amount with two decimals and a currency marker,
// e.g. "R$ -65.90".
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "BRL":
		return "R$ " + formatted
	case "USD":
		return "$" + formatted
	case "EUR":
		return "€" + formatted
	default:
		return strings.ToUpper(currency) + " " + formatted
	}
}
