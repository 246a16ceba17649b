package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Prices are stored as integer cents so that totals stay decimal-exact.
// These helpers convert to and from the two-fraction-digit form used on the
// API surface ("299.99").

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func ParseCents(s string) (int64, error) {
	whole, frac, found := strings.Cut(strings.TrimSpace(s), ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if !found {
		return units * 100, nil
	}
	if len(frac) == 0 || len(frac) > 2 {
		return 0, fmt.Errorf("invalid price %q: expected at most two fraction digits", s)
	}
	if len(frac) == 1 {
		frac += "0"
	}
	hund, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if units < 0 || strings.HasPrefix(whole, "-") {
		return units*100 - int64(hund), nil
	}
	return units*100 + int64(hund), nil
}
