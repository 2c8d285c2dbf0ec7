package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// moneyPattern matches statement money cells: digits with optional
// thousands separators and an optional decimal part. No sign, no currency
// symbol; the paid-out/paid-in columns carry bare amounts.
var moneyPattern = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*(?:\.\d+)?$|^\d+(?:\.\d+)?$`)

// parseDate parses a statement date cell, e.g. "04 Jan 18" for the default
// "02 Jan 06" layout.
func parseDate(text, layout string) (time.Time, error) {
	d, err := time.Parse(layout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("date cell %q: %w", text, err)
	}
	return d, nil
}

// parsePence converts a money cell to integer minor units, rounding the
// decimal value at two places. "1,234.56" -> 123456.
func parsePence(text string) (int64, error) {
	s := strings.TrimSpace(text)
	if !moneyPattern.MatchString(s) {
		return 0, fmt.Errorf("money cell %q: not an amount", text)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("money cell %q: %w", text, err)
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// FormatPence renders integer pence as a plain two-decimal amount,
// e.g. 123456 -> "1234.56".
func FormatPence(pence int64) string {
	return decimal.New(pence, -2).StringFixed(2)
}
