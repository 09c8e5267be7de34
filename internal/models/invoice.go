package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTRates is the fixed set of GST slab percentages a line item may carry.
var GSTRates = []int{0, 5, 12, 18, 28}

// ValidGSTRate reports whether rate is one of the recognised GST slabs.
func ValidGSTRate(rate int) bool {
	for _, r := range GSTRates {
		if r == rate {
			return true
		}
	}
	return false
}

// LineItem is a single taxable row on an invoice. The derived fields
// (TaxableValue, TaxAmount, Total) are always recomputed from quantity,
// rate and GST rate at construction; they are never accepted from input.
type LineItem struct {
	ProductName  string          `json:"product_name"`
	HSNCode      string          `json:"hsn_code"`
	Quantity     int64           `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	GSTRate      int             `json:"gst_rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
}

// SplitType classifies how an invoice's tax is attributed.
type SplitType string

const (
	SplitIntrastate SplitType = "intrastate" // CGST + SGST, equal halves
	SplitInterstate SplitType = "interstate" // IGST in full
)

// TaxSplit is the resolved tax attribution for one invoice. For an
// intrastate supply CGST and SGST each hold half the total tax and IGST
// is zero; for interstate IGST holds the full tax and CGST/SGST are zero.
type TaxSplit struct {
	Type SplitType       `json:"type"`
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Intrastate reports whether the split is a same-state CGST/SGST split.
func (s TaxSplit) Intrastate() bool {
	return s.Type == SplitIntrastate
}

// Invoice is a finalized, immutable sales invoice. It is constructed once
// by the assembler from a validated line-item set and a freshly issued
// invoice number, then persisted; corrections require a new invoice.
type Invoice struct {
	ID            int64     `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	OutOfSequence bool      `json:"out_of_sequence,omitempty"`
	InvoiceDate   time.Time `json:"invoice_date"`

	SellerName  string `json:"seller_name"`
	SellerState string `json:"seller_state"`
	SellerGSTIN string `json:"seller_gstin"`

	CustomerName    string `json:"customer_name"`
	CustomerState   string `json:"customer_state"`
	CustomerGSTIN   string `json:"customer_gstin,omitempty"`
	BillingAddress  string `json:"billing_address"`
	ShippingAddress string `json:"shipping_address"`

	Items []LineItem `json:"items"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TaxSplit      TaxSplit        `json:"tax_split"`
	AmountInWords string          `json:"amount_in_words"`

	CreatedAt time.Time `json:"created_at"`
}

// Customer is a billing party, keyed by name. GSTIN is optional
// (unregistered customers). ShippingAddress falls back to BillingAddress
// when not provided.
type Customer struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	GSTIN           string    `json:"gstin,omitempty"`
	State           string    `json:"state"`
	BillingAddress  string    `json:"billing_address"`
	ShippingAddress string    `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
