package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// currency noise the booking form is known to send along with the amount
var feeStripSet = []string{"₦", "NGN", "$", ",", " "}

// ParseFee parses a raw fee string from the booking form. Currency symbols,
// thousands separators and whitespace are stripped before parsing. A value
// that still fails to parse, or parses negative, is a validation error; the
// caller must not substitute a default for it.
func ParseFee(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	for _, s := range feeStripSet {
		cleaned = strings.ReplaceAll(cleaned, s, "")
	}
	if cleaned == "" {
		return 0, fmt.Errorf("fee is empty")
	}
	fee, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fee %q: %w", raw, err)
	}
	if fee < 0 {
		return 0, fmt.Errorf("fee must not be negative, got %v", fee)
	}
	return fee, nil
}

// FormatFee renders a fee for human-readable output, e.g. "₦7,000.00".
func FormatFee(symbol string, fee float64) string {
	s := strconv.FormatFloat(fee, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return symbol + b.String() + "." + parts[1]
}
