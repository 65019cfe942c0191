package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)

// dateLayouts are tried in order; the first match wins.
var dateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"02/01/2006",
	"2006-01-02",
}

// Serial day numbers outside this range are not treated as spreadsheet dates.
const (
	minSerialDate = 1
	maxSerialDate = 2958465
)

// ParseDate reads a loosely formatted join date. It returns false when the
// value could not be read; the caller then uses today.
func ParseDate(value string) (time.Time, bool) {
	normalized := normalizeDate(value)
	if normalized == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, normalized); err == nil {
			return parsed, true
		}
	}

	if serial, err := strconv.ParseFloat(normalized, 64); err == nil && serial >= minSerialDate && serial <= maxSerialDate {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			y, m, d := parsed.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

func normalizeDate(value string) string {
	value = strings.ReplaceAll(value, ",", " ")
	value = strings.Join(strings.Fields(value), " ")
	return ordinalSuffix.ReplaceAllString(value, "$1")
}

// parseAmount reads an integer cell. Thousands separators are ignored and
// fractions are truncated toward zero.
func parseAmount(value string, fallback int) (int, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return fallback, true
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed, true
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		return int(parsed), true
	}
	return fallback, false
}

// cell returns the trimmed value of the 1-indexed column, or "".
func cell(row []string, column int) string {
	if column < 1 || column > len(row) {
		return ""
	}
	return strings.TrimSpace(row[column-1])
}

func textOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
