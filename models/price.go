package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParsePrice normalizes a display price such as "49€", "49.99" or "49,99 EUR"
// into minor units and a lower-case ISO currency code. defaultCurrency
// applies when the string carries no currency marker.
func ParsePrice(display, defaultCurrency string) (int64, string, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return 0, "", errors.New("price is required")
	}

	currency := ""
	var num, letters strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			num.WriteRune(r)
		case r == '€':
			currency = "eur"
		case r == '$':
			currency = "usd"
		case r == '£':
			currency = "gbp"
		case r == '-':
			return 0, "", errors.New("price must be positive")
		case unicode.IsLetter(r):
			letters.WriteRune(r)
		}
	}
	if currency == "" {
		if code := strings.ToLower(letters.String()); len(code) == 3 {
			currency = code
		}
	}
	if currency == "" {
		currency = strings.ToLower(defaultCurrency)
	}

	n := num.String()
	if n == "" {
		return 0, "", fmt.Errorf("invalid price %q", display)
	}

	// The last separator is the decimal point; earlier ones group thousands.
	whole, frac := n, ""
	if sep := strings.LastIndexAny(n, ".,"); sep >= 0 {
		whole, frac = n[:sep], n[sep+1:]
		if len(frac) > 2 {
			// "1.000" style grouping, not a fraction.
			whole, frac = whole+frac, ""
		}
	}
	whole = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, whole)
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid price %q", display)
	}
	var cents int64
	if frac != "" {
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid price %q", display)
		}
		if len(frac) == 1 {
			cents *= 10
		}
	}

	amount := units*100 + cents
	if amount <= 0 {
		return 0, "", errors.New("price must be positive")
	}
	return amount, currency, nil
}
