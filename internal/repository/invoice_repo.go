package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/models"
)

// InvoiceRepository handles invoice database operations. Monetary
// columns are stored as exact decimal strings, line items as a JSON
// column on the invoice row.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a finalized invoice and fills in its row ID.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	itemsJSON, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	splitJSON, err := json.Marshal(invoice.TaxSplit)
	if err != nil {
		return fmt.Errorf("failed to encode tax split: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, out_of_sequence, invoice_date,
			seller_name, seller_state, seller_gstin,
			customer_name, customer_state, customer_gstin,
			billing_address, shipping_address,
			items, subtotal, total_tax, grand_total, tax_split, amount_in_words
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		invoice.InvoiceNumber,
		invoice.OutOfSequence,
		invoice.InvoiceDate,
		invoice.SellerName,
		invoice.SellerState,
		invoice.SellerGSTIN,
		invoice.CustomerName,
		invoice.CustomerState,
		invoice.CustomerGSTIN,
		invoice.BillingAddress,
		invoice.ShippingAddress,
		string(itemsJSON),
		invoice.Subtotal.String(),
		invoice.TotalTax.String(),
		invoice.GrandTotal.String(),
		string(splitJSON),
		invoice.AmountInWords,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	invoice.ID = id
	return nil
}

const invoiceColumns = `
	id, invoice_number, out_of_sequence, invoice_date,
	seller_name, seller_state, seller_gstin,
	customer_name, customer_state, customer_gstin,
	billing_address, shipping_address,
	items, subtotal, total_tax, grand_total, tax_split, amount_in_words,
	created_at
`

// GetByNumber retrieves an invoice by its invoice number. Returns nil
// when no such invoice exists.
func (r *InvoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = ?`

	invoice, err := r.scanInvoice(r.db.QueryRowContext(ctx, query, invoiceNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice",
			zap.String("invoice_number", invoiceNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// List retrieves all invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		invoice, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	return invoices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *InvoiceRepository) scanInvoice(row rowScanner) (*models.Invoice, error) {
	var (
		invoice                        models.Invoice
		itemsJSON, splitJSON           string
		subtotal, totalTax, grandTotal string
	)

	err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.OutOfSequence,
		&invoice.InvoiceDate,
		&invoice.SellerName,
		&invoice.SellerState,
		&invoice.SellerGSTIN,
		&invoice.CustomerName,
		&invoice.CustomerState,
		&invoice.CustomerGSTIN,
		&invoice.BillingAddress,
		&invoice.ShippingAddress,
		&itemsJSON,
		&subtotal,
		&totalTax,
		&grandTotal,
		&splitJSON,
		&invoice.AmountInWords,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &invoice.Items); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	if err := json.Unmarshal([]byte(splitJSON), &invoice.TaxSplit); err != nil {
		return nil, fmt.Errorf("failed to decode tax split: %w", err)
	}
	if invoice.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("failed to decode subtotal: %w", err)
	}
	if invoice.TotalTax, err = decimal.NewFromString(totalTax); err != nil {
		return nil, fmt.Errorf("failed to decode total tax: %w", err)
	}
	if invoice.GrandTotal, err = decimal.NewFromString(grandTotal); err != nil {
		return nil, fmt.Errorf("failed to decode grand total: %w", err)
	}

	return &invoice, nil
}
