package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// GSTIN layout: 2-digit state code, 10-character PAN, entity number,
// the letter Z, and a check character.
var gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)

// HSN/SAC codes are 2 to 8 digits.
var hsnRegex = regexp.MustCompile(`^[0-9]{2,8}$`)

// ValidateGSTIN validates a 15-character Indian GST identification
// number.
func ValidateGSTIN(gstin string) error {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if len(gstin) != 15 {
		return fmt.Errorf("gstin must be 15 characters: %s", gstin)
	}
	if !gstinRegex.MatchString(gstin) {
		return fmt.Errorf("invalid gstin format: %s", gstin)
	}
	return nil
}

// ValidateHSNCode validates an HSN/SAC classification code.
func ValidateHSNCode(code string) error {
	code = strings.TrimSpace(code)
	if !hsnRegex.MatchString(code) {
		return fmt.Errorf("hsn code must be 2-8 digits: %s", code)
	}
	return nil
}

// NormalizeState canonicalizes a state name for comparison and storage.
func NormalizeState(state string) string {
	return strings.Join(strings.Fields(state), " ")
}
