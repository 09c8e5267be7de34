// Package words renders monetary amounts as English text using the
// Indian numbering system (crore, lakh, thousand). The output is
// deterministic; there is no locale dependency.
package words

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned for amounts below zero; an invoice total
// can never be negative.
var ErrNegativeAmount = errors.New("amount cannot be negative")

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// ToWords renders amount as rupees and paise, e.g.
// "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and
// Eighty Nine Paise Only".
func ToWords(amount decimal.Decimal) (string, error) {
	return ToCurrencyWords(amount, "Rupees", "Paise")
}

// ToCurrencyWords is ToWords with configurable currency unit names.
// The amount is split into integer major units and rounded minor units
// (minor = round(fraction x 100)).
func ToCurrencyWords(amount decimal.Decimal, major, minor string) (string, error) {
	if amount.IsNegative() {
		return "", ErrNegativeAmount
	}

	// Work in minor units so 0.999... style inputs round the same way
	// the tax arithmetic does.
	totalMinor := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	majorPart := totalMinor / 100
	minorPart := totalMinor % 100

	if majorPart == 0 && minorPart == 0 {
		return "Zero " + major + " Only", nil
	}

	var b strings.Builder
	b.WriteString(integerToWords(majorPart))
	b.WriteString(" ")
	b.WriteString(major)
	if minorPart > 0 {
		b.WriteString(" and ")
		b.WriteString(integerToWords(minorPart))
		b.WriteString(" ")
		b.WriteString(minor)
	}
	b.WriteString(" Only")
	return b.String(), nil
}

// integerToWords converts n >= 0 using Indian grouping. Values of a crore
// and above recurse, so 10^12 reads "One Lakh Crore".
func integerToWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, integerToWords(crore), "Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, threeDigitsToWords(lakh), "Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, threeDigitsToWords(thousand), "Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, threeDigitsToWords(n))
	}
	return strings.Join(parts, " ")
}

// threeDigitsToWords converts 1..999.
func threeDigitsToWords(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		if n%10 != 0 {
			parts = append(parts, tens[n/10], ones[n%10])
		} else {
			parts = append(parts, tens[n/10])
		}
	case n > 0:
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}
