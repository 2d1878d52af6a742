// Package dateutils parses the date formats found in bank exports.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date layouts.
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutBrazilian = "02/01/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutMonth     = "2006-01"
)

// ImportFormats lists the layouts accepted for imported dates, day-first
// before month-first.
var ImportFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	DateLayoutFull,
	DateLayoutBrazilian,
	"2/1/2006",
	DateLayoutEuropean,
	"02-01-2006",
	"2006/01/02",
	"02/01/06",
}

// ParseDate parses dateStr with the first matching layout of ImportFormats.
// Results are in UTC.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range ImportFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return strings.Join(strings.Fields(dateStr), " ")
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// MonthKey returns the YYYY-MM bucket of a date in UTC.
func MonthKey(date time.Time) string {
	return date.UTC().Format(DateLayoutMonth)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}
