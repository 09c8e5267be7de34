// Package report rolls persisted invoices into GST reporting summaries:
// a monthly revenue series, per-HSN-code totals and per-rate tax totals.
// All operations are pure reductions; the input collection is never
// mutated and malformed records are skipped and reported rather than
// aborting the aggregation.
package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rushail101/gst-invoice/internal/models"
)

// SkippedRecord describes a historical record the aggregator could not
// use. Callers surface these as warnings alongside the summary.
type SkippedRecord struct {
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason"`
}

// MonthRevenue is one point of the monthly revenue series.
type MonthRevenue struct {
	Month string          `json:"month"` // e.g. "Jan 2026"
	Total decimal.Decimal `json:"total"`
}

// HSNRow aggregates all line items sharing one HSN/SAC code.
//
// AvgGSTRate is the unweighted mean of the gst_rate values seen on line
// occurrences under the code, not a value-weighted average. That is the
// documented definition; do not "fix" it to weight by quantity or value.
type HSNRow struct {
	HSNCode           string          `json:"hsn_code"`
	TotalQuantity     int64           `json:"total_quantity"`
	TotalTaxableValue decimal.Decimal `json:"total_taxable_value"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ProductNames      []string        `json:"product_names"` // distinct, sorted
	AvgGSTRate        float64         `json:"avg_gst_rate"`
}

// TaxRateRow aggregates tax attribution for one GST slab. A line's tax
// lands in CGST+SGST (halved) when its parent invoice is intrastate, or
// wholly in IGST otherwise.
type TaxRateRow struct {
	GSTRate      int             `json:"gst_rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
}

var two = decimal.NewFromInt(2)

// lineUsable validates the fields aggregation depends on. Records written
// by this system always pass; imports from elsewhere may not.
func lineUsable(item models.LineItem) error {
	if item.HSNCode == "" {
		return fmt.Errorf("line item missing hsn code")
	}
	if item.ProductName == "" {
		return fmt.Errorf("line item missing product name")
	}
	if item.Quantity < 1 {
		return fmt.Errorf("line item has quantity %d", item.Quantity)
	}
	return nil
}

// MonthlyRevenue groups grand totals by the invoice date's year-month,
// ordered chronologically. Invoices with no line items are skipped.
func MonthlyRevenue(invoices []models.Invoice) []MonthRevenue {
	type bucket struct {
		key   string // sortable yyyy-mm
		label string
		total decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, inv := range invoices {
		if len(inv.Items) == 0 {
			continue
		}
		key := inv.InvoiceDate.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, label: inv.InvoiceDate.Format("Jan 2006")}
			buckets[key] = b
		}
		b.total = b.total.Add(inv.GrandTotal)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].key < ordered[j].key })

	series := make([]MonthRevenue, 0, len(ordered))
	for _, b := range ordered {
		series = append(series, MonthRevenue{Month: b.label, Total: b.total})
	}
	return series
}

// HSNSummary reduces invoices into one row per HSN code. Malformed line
// items are skipped and reported; the invoice's remaining lines still
// count.
func HSNSummary(invoices []models.Invoice) (map[string]*HSNRow, []SkippedRecord) {
	type accum struct {
		row      *HSNRow
		names    map[string]struct{}
		rateSum  int64
		rateSeen int64
	}
	accums := make(map[string]*accum)
	var skipped []SkippedRecord

	for _, inv := range invoices {
		if len(inv.Items) == 0 {
			continue
		}
		for _, item := range inv.Items {
			if err := lineUsable(item); err != nil {
				skipped = append(skipped, SkippedRecord{InvoiceNumber: inv.InvoiceNumber, Reason: err.Error()})
				continue
			}
			a, ok := accums[item.HSNCode]
			if !ok {
				a = &accum{row: &HSNRow{HSNCode: item.HSNCode}, names: make(map[string]struct{})}
				accums[item.HSNCode] = a
			}
			a.row.TotalQuantity += item.Quantity
			a.row.TotalTaxableValue = a.row.TotalTaxableValue.Add(item.TaxableValue)
			a.row.TotalTax = a.row.TotalTax.Add(item.TaxAmount)
			a.row.TotalValue = a.row.TotalValue.Add(item.Total)
			a.names[item.ProductName] = struct{}{}
			a.rateSum += int64(item.GSTRate)
			a.rateSeen++
		}
	}

	rows := make(map[string]*HSNRow, len(accums))
	for code, a := range accums {
		for name := range a.names {
			a.row.ProductNames = append(a.row.ProductNames, name)
		}
		sort.Strings(a.row.ProductNames)
		a.row.AvgGSTRate = float64(a.rateSum) / float64(a.rateSeen)
		rows[code] = a.row
	}
	return rows, skipped
}

// TaxRateSummary reduces invoices into one row per GST slab, attributing
// each line's tax per its parent invoice's split.
func TaxRateSummary(invoices []models.Invoice) (map[int]*TaxRateRow, []SkippedRecord) {
	rows := make(map[int]*TaxRateRow)
	var skipped []SkippedRecord

	for _, inv := range invoices {
		if len(inv.Items) == 0 {
			continue
		}
		for _, item := range inv.Items {
			if err := lineUsable(item); err != nil {
				skipped = append(skipped, SkippedRecord{InvoiceNumber: inv.InvoiceNumber, Reason: err.Error()})
				continue
			}
			row, ok := rows[item.GSTRate]
			if !ok {
				row = &TaxRateRow{GSTRate: item.GSTRate}
				rows[item.GSTRate] = row
			}
			row.TaxableValue = row.TaxableValue.Add(item.TaxableValue)
			if inv.TaxSplit.Intrastate() {
				half := item.TaxAmount.Div(two).Round(2)
				row.CGST = row.CGST.Add(half)
				row.SGST = row.SGST.Add(half)
			} else {
				row.IGST = row.IGST.Add(item.TaxAmount)
			}
		}
	}
	return rows, skipped
}
