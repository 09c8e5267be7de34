package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushail101/gst-invoice/internal/models"
	"github.com/rushail101/gst-invoice/internal/tax"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(t *testing.T, product, hsn string, qty int64, rate string, gstRate int) models.LineItem {
	t.Helper()
	item, err := tax.NewLineItem(product, hsn, qty, d(rate), gstRate)
	require.NoError(t, err)
	return item
}

func invoice(t *testing.T, number string, date time.Time, sellerState, customerState string, items ...models.LineItem) models.Invoice {
	t.Helper()
	subtotal, totalTax, grandTotal, err := tax.ComputeInvoiceTotals(items)
	require.NoError(t, err)
	return models.Invoice{
		InvoiceNumber: number,
		InvoiceDate:   date,
		SellerState:   sellerState,
		CustomerState: customerState,
		Items:         items,
		Subtotal:      subtotal,
		TotalTax:      totalTax,
		GrandTotal:    grandTotal,
		TaxSplit:      tax.ComputeSplit(sellerState, customerState, totalTax),
	}
}

func TestMonthlyRevenue(t *testing.T) {
	jan := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	invoices := []models.Invoice{
		invoice(t, "INV-00002", feb, "Maharashtra", "Delhi", line(t, "Cable", "8544", 1, "100.00", 18)),
		invoice(t, "INV-00001", jan, "Maharashtra", "Maharashtra", line(t, "Keyboard", "8471", 1, "500.00", 18)),
		invoice(t, "INV-00003", jan, "Maharashtra", "Delhi", line(t, "Mouse", "8471", 2, "250.00", 18)),
	}

	series := MonthlyRevenue(invoices)
	require.Len(t, series, 2)
	assert.Equal(t, "Jan 2026", series[0].Month)
	assert.True(t, d("1180.00").Equal(series[0].Total), "jan = %s", series[0].Total)
	assert.Equal(t, "Feb 2026", series[1].Month)
	assert.True(t, d("118.00").Equal(series[1].Total), "feb = %s", series[1].Total)
}

func TestMonthlyRevenue_SkipsEmptyInvoices(t *testing.T) {
	empty := models.Invoice{InvoiceNumber: "INV-00009", InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	series := MonthlyRevenue([]models.Invoice{empty})
	assert.Empty(t, series)
}

func TestHSNSummary(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("merges lines sharing a code across invoices", func(t *testing.T) {
		invoices := []models.Invoice{
			invoice(t, "INV-00001", jan, "Maharashtra", "Maharashtra",
				line(t, "Keyboard", "8471", 2, "450.00", 18),
				line(t, "HDMI Cable", "8544", 1, "299.00", 28)),
			invoice(t, "INV-00002", jan, "Maharashtra", "Delhi",
				line(t, "Mouse", "8471", 3, "300.00", 12)),
		}

		rows, skipped := HSNSummary(invoices)
		assert.Empty(t, skipped)
		require.Contains(t, rows, "8471")
		require.Contains(t, rows, "8544")

		row := rows["8471"]
		assert.Equal(t, int64(5), row.TotalQuantity)
		assert.True(t, d("1800.00").Equal(row.TotalTaxableValue), "taxable = %s", row.TotalTaxableValue)
		assert.True(t, d("270.00").Equal(row.TotalTax), "tax = %s", row.TotalTax)
		assert.True(t, d("2070.00").Equal(row.TotalValue))
		assert.Equal(t, []string{"Keyboard", "Mouse"}, row.ProductNames)
	})

	t.Run("average gst rate is unweighted across occurrences", func(t *testing.T) {
		invoices := []models.Invoice{
			invoice(t, "INV-00001", jan, "Maharashtra", "Delhi",
				line(t, "Bulk item", "9999", 1000, "10.00", 5),
				line(t, "Single item", "9999", 1, "10.00", 28)),
		}
		rows, _ := HSNSummary(invoices)
		require.Contains(t, rows, "9999")
		// Mean of {5, 28} regardless of the quantity skew.
		assert.InDelta(t, 16.5, rows["9999"].AvgGSTRate, 1e-9)
	})

	t.Run("malformed lines are skipped and reported", func(t *testing.T) {
		good := invoice(t, "INV-00001", jan, "Maharashtra", "Delhi", line(t, "Mouse", "8471", 1, "300.00", 18))
		bad := good
		bad.InvoiceNumber = "INV-00002"
		bad.Items = []models.LineItem{{ProductName: "Mystery", Quantity: 1}} // no HSN code

		rows, skipped := HSNSummary([]models.Invoice{good, bad})
		assert.Len(t, rows, 1)
		require.Len(t, skipped, 1)
		assert.Equal(t, "INV-00002", skipped[0].InvoiceNumber)
		assert.Contains(t, skipped[0].Reason, "hsn code")
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		inv := invoice(t, "INV-00001", jan, "Maharashtra", "Delhi", line(t, "Mouse", "8471", 1, "300.00", 18))
		before := inv.Items[0]
		HSNSummary([]models.Invoice{inv})
		HSNSummary([]models.Invoice{inv})
		assert.Equal(t, before, inv.Items[0])
	})
}

func TestTaxRateSummary(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("intrastate tax splits evenly into cgst and sgst", func(t *testing.T) {
		invoices := []models.Invoice{
			invoice(t, "INV-00001", jan, "Maharashtra", "maharashtra",
				line(t, "Keyboard", "8471", 1, "1000.00", 18)),
		}
		rows, skipped := TaxRateSummary(invoices)
		assert.Empty(t, skipped)
		require.Contains(t, rows, 18)
		row := rows[18]
		assert.True(t, d("1000.00").Equal(row.TaxableValue))
		assert.True(t, d("90.00").Equal(row.CGST), "cgst = %s", row.CGST)
		assert.True(t, d("90.00").Equal(row.SGST))
		assert.True(t, row.IGST.IsZero())
	})

	t.Run("interstate tax lands wholly in igst", func(t *testing.T) {
		invoices := []models.Invoice{
			invoice(t, "INV-00001", jan, "Delhi", "Maharashtra",
				line(t, "Keyboard", "8471", 1, "1000.00", 18)),
		}
		rows, _ := TaxRateSummary(invoices)
		row := rows[18]
		assert.True(t, d("180.00").Equal(row.IGST))
		assert.True(t, row.CGST.IsZero())
		assert.True(t, row.SGST.IsZero())
	})

	t.Run("rates accumulate independently", func(t *testing.T) {
		invoices := []models.Invoice{
			invoice(t, "INV-00001", jan, "Delhi", "Maharashtra",
				line(t, "Cable", "8544", 2, "100.00", 5),
				line(t, "Keyboard", "8471", 1, "500.00", 18)),
			invoice(t, "INV-00002", jan, "Delhi", "Delhi",
				line(t, "Adapter", "8504", 1, "400.00", 5)),
		}
		rows, _ := TaxRateSummary(invoices)
		require.Len(t, rows, 2)
		assert.True(t, d("600.00").Equal(rows[5].TaxableValue))
		assert.True(t, d("10.00").Equal(rows[5].IGST))
		assert.True(t, d("10.00").Equal(rows[5].CGST))
		assert.True(t, d("10.00").Equal(rows[5].SGST))
		assert.True(t, d("90.00").Equal(rows[18].IGST))
	})
}
