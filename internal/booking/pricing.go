package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Monetary amounts move through the engine as integer cents.  The
// database stores DECIMAL(10,2) columns, so every amount crosses the
// repository boundary through ParseCents/FormatCents; rounding happens
// exactly once, at that boundary, with round-half-up at two decimals.
// Line totals are rounded individually before they are summed.

// ErrBadAmount is returned by ParseCents for input that is not a
// decimal money amount.
var ErrBadAmount = errors.New("malformed money amount")

// Nights returns the integer day count between the check-in and
// check-out civil dates.  Both arguments are expected at UTC midnight.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// AccommodationCents computes the accommodation component of a
// booking's price: nightly rate × rooms × nights.
func AccommodationCents(nightlyRateCents int64, nights, rooms int) int64 {
	return nightlyRateCents * int64(nights) * int64(rooms)
}

// LineTotalCents computes an attachment's line total: per-participant
// price × quantity.  With cent precision the product is exact, which
// satisfies round-half-up at two decimals by construction.
func LineTotalCents(perPersonCents int64, quantity int) int64 {
	return perPersonCents * int64(quantity)
}

// ParseCents converts a decimal string such as "125.5" or "100.00"
// into cents, rounding half-up at two decimal places.  It accepts an
// optional leading minus sign, used only when scanning adjustments;
// all engine-produced amounts are non-negative.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadAmount
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrBadAmount
	}
	var cents int64
	for i := 0; i < len(whole); i++ {
		d := whole[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
		}
		cents = cents*10 + int64(d-'0')
	}
	cents *= 100
	// First two fractional digits carry value; the third decides the
	// half-up rounding. Anything beyond is ignored.
	scale := int64(10)
	for i := 0; i < len(frac); i++ {
		d := frac[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
		}
		switch {
		case i < 2:
			cents += int64(d-'0') * scale
			scale /= 10
		case i == 2:
			if d >= '5' {
				cents++
			}
		}
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatCents renders cents as a plain decimal string with exactly two
// fractional digits, e.g. 60000 -> "600.00".
func FormatCents(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", neg, cents/100, cents%100)
}
