// Package dateparse extracts month/year references from free-form text.
//
// Both the list canonicalizer and the global search engine parse user input
// through this package, so the same string is always interpreted the same way
// in both contexts. The month-name table is the single source of truth for
// what counts as a month token.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNames maps lowercase month names and their common abbreviations to
// month numbers. "sept" is accepted alongside "sep".
var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// IsMonthName reports whether the lowercase token names a month per the
// shared table.
func IsMonthName(token string) bool {
	_, ok := monthNames[token]
	return ok
}

// The recognized patterns, tried in order. Years are restricted to 19xx/20xx
// so bare numbers like street addresses don't parse as years.
var (
	reMonthYear = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\s+((?:19|20)\d{2})\b`)
	reYearMonth = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s+([A-Za-z]{3,9})\b`)
	reNumYear   = regexp.MustCompile(`\b(0?\d|1[0-2])[/-]((?:19|20)\d{2})\b`)
	reYearNum   = regexp.MustCompile(`\b((?:19|20)\d{2})[/-](0?\d|1[0-2])\b`)

	reCanonical = regexp.MustCompile(`^((?:19|20)\d{2})-(\d{2})$`)
	reBareYear  = regexp.MustCompile(`^(?:19|20)\d{2}$`)
)

// ExtractMonthYear attempts to parse a month and year out of free text.
// Recognized forms include "August 2025", "Aug 2025", "2025 August",
// "08/2025", "8-2025", "2025-08", and "2025/8". The first pattern that yields
// a month in [1,12] wins. Returns ok=false when nothing parses.
func ExtractMonthYear(s string) (year, month int, ok bool) {
	if m := reMonthYear.FindStringSubmatch(s); m != nil {
		if mon, found := monthNames[strings.ToLower(m[1])]; found {
			return atoi(m[2]), mon, true
		}
	}
	if m := reYearMonth.FindStringSubmatch(s); m != nil {
		if mon, found := monthNames[strings.ToLower(m[2])]; found {
			return atoi(m[1]), mon, true
		}
	}
	if m := reNumYear.FindStringSubmatch(s); m != nil {
		if mon := atoi(m[1]); mon >= 1 && mon <= 12 {
			return atoi(m[2]), mon, true
		}
	}
	if m := reYearNum.FindStringSubmatch(s); m != nil {
		if mon := atoi(m[2]); mon >= 1 && mon <= 12 {
			return atoi(m[1]), mon, true
		}
	}
	return 0, 0, false
}

// CanonicalMonth formats a year/month pair as the canonical "YYYY-MM" form
// used for stored date-list items.
func CanonicalMonth(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ParseCanonicalMonth parses a strict canonical "YYYY-MM" string.
// Unlike ExtractMonthYear it matches the whole string, not a fragment.
func ParseCanonicalMonth(s string) (year, month int, ok bool) {
	m := reCanonical.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	mon := atoi(m[2])
	if mon < 1 || mon > 12 {
		return 0, 0, false
	}
	return atoi(m[1]), mon, true
}

// IsBareYear reports whether the token is a four-digit 19xx/20xx year.
func IsBareYear(token string) bool {
	return reBareYear.MatchString(token)
}

// MonthRange returns the first and last calendar day of the given month, both
// at midnight UTC, for inclusive BETWEEN comparisons against date columns.
func MonthRange(year, month int) (first, last time.Time) {
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
