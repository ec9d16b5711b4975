// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and converting between cents and whole-unit representations.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts an amount string to cents with half-up rounding.
//
// It accepts plain decimals with dot or comma separators as well as amounts
// with thousands grouping as entered in the transaction form ("1.000.000",
// "1,000,000", "25.000"). A separator is treated as a grouping mark when every
// group after the first has exactly three digits and there is more than one
// group or no second separator kind; otherwise the last separator is the
// decimal mark. The result is always positive cents.
//
// Examples:
//
//	ParseAmountToCents("20000")     -> 2000000, nil
//	ParseAmountToCents("1.000.000") -> 100000000, nil
//	ParseAmountToCents("12,34")     -> 1234, nil
//	ParseAmountToCents("12.345")    -> 1234500, nil (grouping, not decimals)
//	ParseAmountToCents("12.34")     -> 1234, nil
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed; direction lives on the type field.
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, err := splitAmount(s)
	if err != nil {
		return 0, err
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// Take first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseSignedAmountToCents parses like ParseAmountToCents but accepts a
// leading minus. Initial balances may start negative; transaction amounts
// stay positive and carry direction on the type field.
func ParseSignedAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		cents, err := ParseAmountToCents(rest)
		if err != nil {
			return 0, err
		}
		return -cents, nil
	}
	return ParseAmountToCents(s)
}

// splitAmount separates the digits of an amount string into integer and
// fractional parts, resolving whether separators group thousands or mark
// the decimal point.
func splitAmount(s string) (intPart, fracPart string, err error) {
	var groups []string
	start := 0
	for i, r := range s {
		if r == '.' || r == ',' {
			groups = append(groups, s[start:i])
			start = i + 1
		}
	}
	groups = append(groups, s[start:])
	for _, g := range groups {
		if g == "" {
			return "", "", ErrInvalidAmount
		}
		for _, r := range g {
			if !unicode.IsDigit(r) {
				return "", "", ErrInvalidAmount
			}
		}
	}

	if len(groups) == 1 {
		return groups[0], "", nil
	}

	// Mixed separators: the last one is the decimal mark, the rest group.
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	if lastDot >= 0 && lastComma >= 0 {
		intPart = strings.Join(groups[:len(groups)-1], "")
		return intPart, groups[len(groups)-1], nil
	}

	// Single separator kind. All-3-digit trailing groups read as grouping;
	// a two-or-fewer digit final group reads as a decimal part.
	last := groups[len(groups)-1]
	grouped := len(last) == 3
	for _, g := range groups[1:] {
		if len(g) != 3 {
			grouped = false
		}
	}
	if grouped {
		return strings.Join(groups, ""), "", nil
	}
	if len(groups) == 2 && len(last) <= 2 {
		return groups[0], last, nil
	}
	return "", "", ErrInvalidAmount
}

// Units returns the whole-unit value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}
