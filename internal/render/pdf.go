// Package render lays a finalized invoice out as a printable PDF. All
// figures arrive precomputed on the invoice; no tax arithmetic happens
// here.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/models"
)

// PDFRenderer produces printable GST invoices.
type PDFRenderer struct {
	sellerAddress string
	logger        *zap.Logger
}

// NewPDFRenderer creates a PDFRenderer. sellerAddress supplements the
// seller fields already on each invoice.
func NewPDFRenderer(sellerAddress string, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{
		sellerAddress: sellerAddress,
		logger:        logger,
	}
}

// Render returns the invoice as PDF bytes.
func (r *PDFRenderer) Render(inv *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(40, 12, "TAX INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(95, 6, inv.SellerName)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 6, fmt.Sprintf("Invoice No: %s", inv.InvoiceNumber))
	pdf.Ln(6)
	pdf.Cell(95, 5, r.sellerAddress)
	pdf.Cell(95, 5, fmt.Sprintf("Date: %s", inv.InvoiceDate.Format("02 Jan 2006")))
	pdf.Ln(5)
	pdf.Cell(95, 5, fmt.Sprintf("State: %s  GSTIN: %s", inv.SellerState, inv.SellerGSTIN))
	if inv.OutOfSequence {
		pdf.SetTextColor(200, 0, 0)
		pdf.Cell(95, 5, "Out-of-sequence number")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(10)

	// Customer block
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(40, 5, "Bill To:")
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 5, inv.CustomerName)
	pdf.Ln(5)
	pdf.Cell(95, 5, inv.BillingAddress)
	pdf.Ln(5)
	state := inv.CustomerState
	if inv.CustomerGSTIN != "" {
		state = fmt.Sprintf("%s  GSTIN: %s", state, inv.CustomerGSTIN)
	}
	pdf.Cell(95, 5, state)
	pdf.Ln(8)

	// Line item table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	headers := []struct {
		label string
		width float64
	}{
		{"Product", 55}, {"HSN", 20}, {"Qty", 15}, {"Rate", 25},
		{"Taxable", 25}, {"GST%", 15}, {"Tax", 20}, {"Total", 25},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, item := range inv.Items {
		pdf.CellFormat(55, 6, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, item.HSNCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, item.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, item.TaxableValue.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d%%", item.GSTRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, item.TaxAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, item.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Totals and tax split
	writeTotal := func(label, value string, bold bool) {
		if bold {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 10)
		}
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, value, "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	writeTotal("Subtotal", inv.Subtotal.StringFixed(2), false)
	if inv.TaxSplit.Intrastate() {
		writeTotal("CGST", inv.TaxSplit.CGST.StringFixed(2), false)
		writeTotal("SGST", inv.TaxSplit.SGST.StringFixed(2), false)
	} else {
		writeTotal("IGST", inv.TaxSplit.IGST.StringFixed(2), false)
	}
	writeTotal("Grand Total", inv.GrandTotal.StringFixed(2), true)

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(190, 5, fmt.Sprintf("Amount in words: %s", inv.AmountInWords), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("Failed to render invoice PDF",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	r.logger.Debug("Invoice PDF rendered",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
