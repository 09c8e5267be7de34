// Package tax implements GST line and invoice arithmetic, including the
// intrastate/interstate split rule. All functions are pure; monetary
// figures are rounded half-up to two decimal places (paise) at each
// derived value.
package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rushail101/gst-invoice/internal/models"
)

var hundred = decimal.NewFromInt(100)

// roundMoney rounds to the currency's minor unit. decimal.Round is
// half-away-from-zero, which equals half-up for the non-negative amounts
// this package deals in.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeLine derives the taxable value, tax amount and total for one
// line. Inputs are validated before anything is computed.
func ComputeLine(quantity int64, rate decimal.Decimal, gstRate int) (taxableValue, taxAmount, total decimal.Decimal, err error) {
	var zero decimal.Decimal
	if quantity < 1 {
		return zero, zero, zero, &ValidationError{Err: ErrInvalidQuantity, Details: fmt.Sprintf("got %d", quantity)}
	}
	if rate.IsNegative() {
		return zero, zero, zero, &ValidationError{Err: ErrNegativeRate, Details: fmt.Sprintf("got %s", rate)}
	}
	if !models.ValidGSTRate(gstRate) {
		return zero, zero, zero, &ValidationError{Err: ErrUnknownGSTRate, Details: fmt.Sprintf("got %d%%, want one of %v", gstRate, models.GSTRates)}
	}

	taxableValue = roundMoney(rate.Mul(decimal.NewFromInt(quantity)))
	taxAmount = roundMoney(taxableValue.Mul(decimal.NewFromInt(int64(gstRate))).Div(hundred))
	total = taxableValue.Add(taxAmount)
	return taxableValue, taxAmount, total, nil
}

// NewLineItem validates the raw inputs and builds a fully derived line
// item. Once a LineItem exists its figures are trusted; there is no
// re-validation downstream.
func NewLineItem(productName, hsnCode string, quantity int64, rate decimal.Decimal, gstRate int) (models.LineItem, error) {
	if strings.TrimSpace(productName) == "" {
		return models.LineItem{}, &ValidationError{Err: ErrMissingProductName}
	}
	if strings.TrimSpace(hsnCode) == "" {
		return models.LineItem{}, &ValidationError{Err: ErrMissingHSNCode, Details: fmt.Sprintf("product %q", productName)}
	}

	taxableValue, taxAmount, total, err := ComputeLine(quantity, rate, gstRate)
	if err != nil {
		return models.LineItem{}, err
	}

	return models.LineItem{
		ProductName:  strings.TrimSpace(productName),
		HSNCode:      strings.TrimSpace(hsnCode),
		Quantity:     quantity,
		Rate:         rate,
		GSTRate:      gstRate,
		TaxableValue: taxableValue,
		TaxAmount:    taxAmount,
		Total:        total,
	}, nil
}

// ComputeInvoiceTotals sums line figures into invoice-level totals.
// An invoice must have at least one taxable line.
func ComputeInvoiceTotals(items []models.LineItem) (subtotal, totalTax, grandTotal decimal.Decimal, err error) {
	if len(items) == 0 {
		return subtotal, totalTax, grandTotal, ErrEmptyInvoice
	}
	for _, item := range items {
		subtotal = subtotal.Add(item.TaxableValue)
		totalTax = totalTax.Add(item.TaxAmount)
	}
	grandTotal = subtotal.Add(totalTax)
	return subtotal, totalTax, grandTotal, nil
}

// SameState compares two state names with surrounding whitespace trimmed,
// case-insensitively. A blank state on either side never matches; an
// unknown place of supply is treated as interstate (IGST), the
// conservative reading when the split cannot be established.
func SameState(sellerState, customerState string) bool {
	a := strings.ToLower(strings.TrimSpace(sellerState))
	b := strings.ToLower(strings.TrimSpace(customerState))
	if a == "" || b == "" {
		return false
	}
	return a == b
}

// ComputeSplit classifies totalTax as an intrastate CGST/SGST split or a
// single interstate IGST amount, based on the seller and customer states.
// For an odd number of paise the two halves may undercount the total by
// one minor unit; the components always sum to within one paisa of
// totalTax.
func ComputeSplit(sellerState, customerState string, totalTax decimal.Decimal) models.TaxSplit {
	if SameState(sellerState, customerState) {
		half := roundMoney(totalTax.Div(decimal.NewFromInt(2)))
		return models.TaxSplit{Type: models.SplitIntrastate, CGST: half, SGST: half}
	}
	return models.TaxSplit{Type: models.SplitInterstate, IGST: totalTax}
}
