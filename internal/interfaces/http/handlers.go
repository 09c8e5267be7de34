package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/invoice"
	"github.com/rushail101/gst-invoice/internal/models"
	"github.com/rushail101/gst-invoice/internal/report"
	"github.com/rushail101/gst-invoice/internal/tax"
	"github.com/rushail101/gst-invoice/pkg/utils"
)

// Assembler builds and persists invoices.
type Assembler interface {
	Assemble(ctx context.Context, draft invoice.Draft) (*models.Invoice, error)
}

// InvoiceReader reads persisted invoices.
type InvoiceReader interface {
	List(ctx context.Context) ([]models.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
}

// CustomerReader reads persisted customers.
type CustomerReader interface {
	List(ctx context.Context) ([]models.Customer, error)
}

// Renderer lays an invoice out as a printable document.
type Renderer interface {
	Render(inv *models.Invoice) ([]byte, error)
}

// Exporter builds the GST summary workbook.
type Exporter interface {
	BuildWorkbook(revenue []report.MonthRevenue, hsn map[string]*report.HSNRow, taxRates map[int]*report.TaxRateRow) ([]byte, error)
}

// Handlers contains all HTTP request handlers.
type Handlers struct {
	assembler Assembler
	invoices  InvoiceReader
	customers CustomerReader
	renderer  Renderer
	exporter  Exporter
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(assembler Assembler, invoices InvoiceReader, customers CustomerReader, renderer Renderer, exporter Exporter, logger *zap.Logger) *Handlers {
	return &Handlers{
		assembler: assembler,
		invoices:  invoices,
		customers: customers,
		renderer:  renderer,
		exporter:  exporter,
		logger:    logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Warning string      `json:"warning,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type createInvoiceCustomer struct {
	Name            string `json:"name" binding:"required"`
	State           string `json:"state"`
	GSTIN           string `json:"gstin"`
	BillingAddress  string `json:"billing_address"`
	ShippingAddress string `json:"shipping_address"`
}

type createInvoiceRequest struct {
	InvoiceDate string                `json:"invoice_date"` // yyyy-mm-dd, defaults to today
	Customer    createInvoiceCustomer `json:"customer" binding:"required"`
	Items       []invoice.LineInput   `json:"items"`
}

// CreateInvoice validates the submitted draft and assembles an invoice.
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if req.Customer.GSTIN != "" {
		if err := utils.ValidateGSTIN(req.Customer.GSTIN); err != nil {
			c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
			return
		}
	}

	var invoiceDate time.Time
	if req.InvoiceDate != "" {
		var err error
		invoiceDate, err = time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Error: fmt.Sprintf("invalid invoice_date: %v", err)})
			return
		}
	}

	draft := invoice.Draft{
		InvoiceDate: invoiceDate,
		Customer: models.Customer{
			Name:            req.Customer.Name,
			State:           utils.NormalizeState(req.Customer.State),
			GSTIN:           req.Customer.GSTIN,
			BillingAddress:  req.Customer.BillingAddress,
			ShippingAddress: req.Customer.ShippingAddress,
		},
		Lines: req.Items,
	}

	inv, err := h.assembler.Assemble(c.Request.Context(), draft)
	if err != nil {
		var validationErr *tax.ValidationError
		switch {
		case errors.Is(err, tax.ErrEmptyInvoice), errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		case errors.Is(err, invoice.ErrPersistence):
			c.JSON(http.StatusServiceUnavailable, Response{Error: err.Error()})
		default:
			h.logger.Error("Invoice assembly failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Error: "failed to create invoice"})
		}
		return
	}

	resp := Response{Success: true, Data: inv}
	if inv.OutOfSequence {
		resp.Warning = "invoice numbered out of sequence: counter was unreachable"
	}
	c.JSON(http.StatusCreated, resp)
}

// ListInvoices returns all invoices, newest first.
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to list invoices"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoices})
}

func (h *Handlers) findInvoice(c *gin.Context) *models.Invoice {
	number := c.Param("number")
	inv, err := h.invoices.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.logger.Error("Failed to get invoice", zap.String("invoice_number", number), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to get invoice"})
		return nil
	}
	if inv == nil {
		c.JSON(http.StatusNotFound, Response{Error: fmt.Sprintf("invoice %s not found", number)})
		return nil
	}
	return inv
}

// GetInvoice returns one invoice by number.
func (h *Handlers) GetInvoice(c *gin.Context) {
	if inv := h.findInvoice(c); inv != nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: inv})
	}
}

// GetInvoicePDF returns the printable document for one invoice.
func (h *Handlers) GetInvoicePDF(c *gin.Context) {
	inv := h.findInvoice(c)
	if inv == nil {
		return
	}
	pdf, err := h.renderer.Render(inv)
	if err != nil {
		h.logger.Error("Failed to render invoice", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to render invoice"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListCustomers returns all customers ordered by name.
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: customers})
}

func (h *Handlers) loadInvoices(c *gin.Context) ([]models.Invoice, bool) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load invoices for reporting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to load invoices"})
		return nil, false
	}
	return invoices, true
}

func skipWarning(skipped []report.SkippedRecord) string {
	if len(skipped) == 0 {
		return ""
	}
	return fmt.Sprintf("%d malformed record(s) were skipped", len(skipped))
}

// MonthlyRevenue returns the chronological revenue series.
func (h *Handlers) MonthlyRevenue(c *gin.Context) {
	invoices, ok := h.loadInvoices(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: report.MonthlyRevenue(invoices)})
}

// HSNSummary returns per-HSN-code totals.
func (h *Handlers) HSNSummary(c *gin.Context) {
	invoices, ok := h.loadInvoices(c)
	if !ok {
		return
	}
	rows, skipped := report.HSNSummary(invoices)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"rows": rows, "skipped": skipped},
		Warning: skipWarning(skipped),
	})
}

// TaxRateSummary returns per-rate CGST/SGST/IGST totals.
func (h *Handlers) TaxRateSummary(c *gin.Context) {
	invoices, ok := h.loadInvoices(c)
	if !ok {
		return
	}
	rows, skipped := report.TaxRateSummary(invoices)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"rows": rows, "skipped": skipped},
		Warning: skipWarning(skipped),
	})
}

// ExportReports returns all three summaries as an xlsx workbook.
func (h *Handlers) ExportReports(c *gin.Context) {
	invoices, ok := h.loadInvoices(c)
	if !ok {
		return
	}
	revenue := report.MonthlyRevenue(invoices)
	hsnRows, _ := report.HSNSummary(invoices)
	taxRows, _ := report.TaxRateSummary(invoices)

	workbook, err := h.exporter.BuildWorkbook(revenue, hsnRows, taxRows)
	if err != nil {
		h.logger.Error("Failed to export reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to export reports"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=gst-reports.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
