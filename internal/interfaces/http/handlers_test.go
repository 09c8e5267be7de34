package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/invoice"
	"github.com/rushail101/gst-invoice/internal/models"
	"github.com/rushail101/gst-invoice/internal/report"
	"github.com/rushail101/gst-invoice/internal/sequence"
	"github.com/rushail101/gst-invoice/internal/tax"
)

// memInvoiceStore backs both the assembler and the reader side.
type memInvoiceStore struct {
	invoices []models.Invoice
}

func (m *memInvoiceStore) Create(ctx context.Context, inv *models.Invoice) error {
	inv.ID = int64(len(m.invoices) + 1)
	m.invoices = append(m.invoices, *inv)
	return nil
}

func (m *memInvoiceStore) List(ctx context.Context) ([]models.Invoice, error) {
	return m.invoices, nil
}

func (m *memInvoiceStore) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	for i := range m.invoices {
		if m.invoices[i].InvoiceNumber == number {
			return &m.invoices[i], nil
		}
	}
	return nil, nil
}

type memCustomerStore struct {
	customers []models.Customer
}

func (m *memCustomerStore) Upsert(ctx context.Context, customer *models.Customer) error {
	for i := range m.customers {
		if m.customers[i].Name == customer.Name {
			m.customers[i] = *customer
			return nil
		}
	}
	m.customers = append(m.customers, *customer)
	return nil
}

func (m *memCustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	return m.customers, nil
}

type memNumberer struct {
	n int64
}

func (m *memNumberer) Next(ctx context.Context) (sequence.Number, error) {
	m.n++
	return sequence.Number{Value: fmt.Sprintf("INV-%05d", m.n)}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(inv *models.Invoice) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type stubExporter struct{}

func (stubExporter) BuildWorkbook(revenue []report.MonthRevenue, hsn map[string]*report.HSNRow, taxRates map[int]*report.TaxRateRow) ([]byte, error) {
	return []byte("PK-stub"), nil
}

func newTestServer(t *testing.T) (*Server, *memInvoiceStore) {
	t.Helper()
	logger := zap.NewNop()
	invoices := &memInvoiceStore{}
	customers := &memCustomerStore{}
	seller := invoice.SellerProfile{Name: "Acme Traders", State: "Maharashtra", GSTIN: "27AABCU9603R1ZM"}
	assembler := invoice.NewAssembler(seller, invoices, customers, &memNumberer{}, logger)
	handlers := NewHandlers(assembler, invoices, customers, stubRenderer{}, stubExporter{}, logger)
	return NewServer(ServerConfig{Host: "127.0.0.1", Port: 0}, handlers, logger), invoices
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func createPayload() map[string]interface{} {
	return map[string]interface{}{
		"invoice_date": "2026-01-15",
		"customer": map[string]interface{}{
			"name":            "Sharma Electronics",
			"state":           "Maharashtra",
			"billing_address": "12 MG Road, Pune",
		},
		"items": []map[string]interface{}{
			{"product_name": "USB Keyboard", "hsn_code": "8471", "quantity": 2, "rate": "450.00", "gst_rate": 18},
		},
	}
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateInvoice(t *testing.T) {
	t.Run("creates an invoice from a valid draft", func(t *testing.T) {
		server, store := newTestServer(t)
		rec := doJSON(t, server, http.MethodPost, "/api/v1/invoices", createPayload())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, store.invoices, 1)
		assert.Equal(t, "Sharma Electronics", store.invoices[0].CustomerName)
		assert.Equal(t, models.SplitIntrastate, store.invoices[0].TaxSplit.Type)
	})

	t.Run("rejects a draft with no items", func(t *testing.T) {
		server, _ := newTestServer(t)
		payload := createPayload()
		payload["items"] = []map[string]interface{}{}
		rec := doJSON(t, server, http.MethodPost, "/api/v1/invoices", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "at least one line item")
	})

	t.Run("rejects an unknown gst rate", func(t *testing.T) {
		server, _ := newTestServer(t)
		payload := createPayload()
		payload["items"] = []map[string]interface{}{
			{"product_name": "Widget", "hsn_code": "8471", "quantity": 1, "rate": "10.00", "gst_rate": 15},
		}
		rec := doJSON(t, server, http.MethodPost, "/api/v1/invoices", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed customer gstin", func(t *testing.T) {
		server, _ := newTestServer(t)
		payload := createPayload()
		payload["customer"].(map[string]interface{})["gstin"] = "not-a-gstin"
		rec := doJSON(t, server, http.MethodPost, "/api/v1/invoices", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInvoiceReads(t *testing.T) {
	server, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, doJSON(t, server, http.MethodPost, "/api/v1/invoices", createPayload()).Code)

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/invoices", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sharma Electronics")
	})

	t.Run("unknown invoice is 404", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/invoices/INV-99999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("customers listed after creation", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/customers", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sharma Electronics")
	})
}

func TestReports(t *testing.T) {
	server, store := newTestServer(t)

	item, err := tax.NewLineItem("USB Keyboard", "8471", 2, decimal.RequireFromString("450.00"), 18)
	require.NoError(t, err)
	items := []models.LineItem{item}
	subtotal, totalTax, grandTotal, err := tax.ComputeInvoiceTotals(items)
	require.NoError(t, err)
	store.invoices = append(store.invoices, models.Invoice{
		InvoiceNumber: "INV-00001",
		InvoiceDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		SellerState:   "Maharashtra",
		CustomerState: "Delhi",
		Items:         items,
		Subtotal:      subtotal,
		TotalTax:      totalTax,
		GrandTotal:    grandTotal,
		TaxSplit:      tax.ComputeSplit("Maharashtra", "Delhi", totalTax),
	})

	t.Run("monthly revenue", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/reports/monthly-revenue", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Jan 2026")
	})

	t.Run("hsn summary", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/reports/hsn-summary", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "8471")
	})

	t.Run("tax summary", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/reports/tax-summary", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "igst")
	})

	t.Run("export", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/v1/reports/export", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Body.Bytes())
	})
}
