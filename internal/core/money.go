// Package core money helpers: parsing user-entered amounts and formatting
// values as BRL for display. Aggregation works on raw float64 values with no
// rounding policy; rounding happens only at format time.
package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseValue converts a decimal string to a positive float64 value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for empty input, signed input, malformed
// numbers, non-finite values, and amounts that are not strictly positive.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatBRL renders a value as Brazilian currency, e.g. 1234.5 -> "R$ 1.234,50".
// Display-only; never feed the result back into calculations.
func FormatBRL(v float64) string {
	neg := math.Signbit(v)
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("R$ ")
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
