// Package invoice assembles finalized invoices: it validates the draft
// line items, computes totals and the tax split, renders the amount in
// words, obtains the next invoice number and persists the result.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/models"
	"github.com/rushail101/gst-invoice/internal/sequence"
	"github.com/rushail101/gst-invoice/internal/tax"
	"github.com/rushail101/gst-invoice/internal/words"
)

// ErrPersistence marks a record-store write rejection. The core does not
// retry it; an invoice number already issued for the failed write is not
// reused, leaving a gap in the sequence.
var ErrPersistence = errors.New("record store rejected write")

// InvoiceStore persists finalized invoices.
type InvoiceStore interface {
	Create(ctx context.Context, invoice *models.Invoice) error
}

// CustomerStore upserts customers submitted with a draft.
type CustomerStore interface {
	Upsert(ctx context.Context, customer *models.Customer) error
}

// Numberer issues invoice numbers.
type Numberer interface {
	Next(ctx context.Context) (sequence.Number, error)
}

// SellerProfile is the issuing business stamped onto every invoice.
type SellerProfile struct {
	Name    string
	State   string
	GSTIN   string
	Address string
}

// LineInput is one raw line entry from the presentation layer.
type LineInput struct {
	ProductName string          `json:"product_name"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	GSTRate     int             `json:"gst_rate"`
}

// Draft is a caller-owned draft invoice. The assembler never keeps draft
// state of its own between calls.
type Draft struct {
	InvoiceDate time.Time
	Customer    models.Customer
	Lines       []LineInput
}

// Assembler builds and persists invoices.
type Assembler struct {
	seller    SellerProfile
	invoices  InvoiceStore
	customers CustomerStore
	numberer  Numberer
	logger    *zap.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(seller SellerProfile, invoices InvoiceStore, customers CustomerStore, numberer Numberer, logger *zap.Logger) *Assembler {
	return &Assembler{
		seller:    seller,
		invoices:  invoices,
		customers: customers,
		numberer:  numberer,
		logger:    logger,
	}
}

// Assemble validates the draft, derives every figure, issues an invoice
// number exactly once, persists the customer and the invoice and returns
// the immutable result. Validation failures happen before any number is
// issued or anything is written.
func (a *Assembler) Assemble(ctx context.Context, draft Draft) (*models.Invoice, error) {
	if len(draft.Lines) == 0 {
		return nil, tax.ErrEmptyInvoice
	}

	items := make([]models.LineItem, 0, len(draft.Lines))
	for i, line := range draft.Lines {
		item, err := tax.NewLineItem(line.ProductName, line.HSNCode, line.Quantity, line.Rate, line.GSTRate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	subtotal, totalTax, grandTotal, err := tax.ComputeInvoiceTotals(items)
	if err != nil {
		return nil, err
	}
	split := tax.ComputeSplit(a.seller.State, draft.Customer.State, totalTax)

	inWords, err := words.ToWords(grandTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to render amount in words: %w", err)
	}

	number, err := a.numberer.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to issue invoice number: %w", err)
	}
	if number.OutOfSequence {
		a.logger.Warn("Invoice numbered out of sequence",
			zap.String("invoice_number", number.Value))
	}

	invoiceDate := draft.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	shipping := draft.Customer.ShippingAddress
	if shipping == "" {
		shipping = draft.Customer.BillingAddress
	}

	inv := &models.Invoice{
		InvoiceNumber:   number.Value,
		OutOfSequence:   number.OutOfSequence,
		InvoiceDate:     invoiceDate,
		SellerName:      a.seller.Name,
		SellerState:     a.seller.State,
		SellerGSTIN:     a.seller.GSTIN,
		CustomerName:    draft.Customer.Name,
		CustomerState:   draft.Customer.State,
		CustomerGSTIN:   draft.Customer.GSTIN,
		BillingAddress:  draft.Customer.BillingAddress,
		ShippingAddress: shipping,
		Items:           items,
		Subtotal:        subtotal,
		TotalTax:        totalTax,
		GrandTotal:      grandTotal,
		TaxSplit:        split,
		AmountInWords:   inWords,
		CreatedAt:       time.Now(),
	}

	customer := draft.Customer
	if err := a.customers.Upsert(ctx, &customer); err != nil {
		// The invoice is still written; customer bookkeeping is best
		// effort and the invoice row carries its own customer fields.
		a.logger.Warn("Failed to upsert customer",
			zap.String("customer", customer.Name),
			zap.Error(err))
	}

	if err := a.invoices.Create(ctx, inv); err != nil {
		a.logger.Error("Invoice persistence failed; issued number is skipped",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	a.logger.Info("Invoice assembled",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("customer", inv.CustomerName),
		zap.String("grand_total", inv.GrandTotal.String()),
		zap.String("split", string(inv.TaxSplit.Type)),
		zap.Bool("out_of_sequence", inv.OutOfSequence))
	return inv, nil
}
