// Package export writes GST report summaries into a spreadsheet
// workbook for filing and sharing.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/report"
)

const (
	sheetRevenue = "Monthly Revenue"
	sheetHSN     = "HSN Summary"
	sheetTax     = "Tax Summary"
)

// Exporter builds GST summary workbooks.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an Exporter.
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// BuildWorkbook assembles the three report sheets and returns the
// workbook as xlsx bytes.
func (e *Exporter) BuildWorkbook(
	revenue []report.MonthRevenue,
	hsn map[string]*report.HSNRow,
	taxRates map[int]*report.TaxRateRow,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.fillRevenueSheet(f, revenue); err != nil {
		return nil, err
	}
	if err := e.fillHSNSheet(f, hsn); err != nil {
		return nil, err
	}
	if err := e.fillTaxSheet(f, taxRates); err != nil {
		return nil, err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		e.logger.Error("Failed to write report workbook", zap.Error(err))
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Report workbook built",
		zap.Int("months", len(revenue)),
		zap.Int("hsn_codes", len(hsn)),
		zap.Int("tax_rates", len(taxRates)))
	return buf.Bytes(), nil
}

func (e *Exporter) fillRevenueSheet(f *excelize.File, revenue []report.MonthRevenue) error {
	if _, err := f.NewSheet(sheetRevenue); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	e.setRow(f, sheetRevenue, 1, "Month", "Revenue")
	for i, point := range revenue {
		e.setRow(f, sheetRevenue, i+2, point.Month, point.Total.StringFixed(2))
	}
	return nil
}

func (e *Exporter) fillHSNSheet(f *excelize.File, hsn map[string]*report.HSNRow) error {
	if _, err := f.NewSheet(sheetHSN); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	e.setRow(f, sheetHSN, 1,
		"HSN Code", "Quantity", "Taxable Value", "Tax", "Total Value", "Products", "Avg GST %")

	codes := make([]string, 0, len(hsn))
	for code := range hsn {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for i, code := range codes {
		row := hsn[code]
		e.setRow(f, sheetHSN, i+2,
			row.HSNCode,
			row.TotalQuantity,
			row.TotalTaxableValue.StringFixed(2),
			row.TotalTax.StringFixed(2),
			row.TotalValue.StringFixed(2),
			strings.Join(row.ProductNames, ", "),
			row.AvgGSTRate)
	}
	return nil
}

func (e *Exporter) fillTaxSheet(f *excelize.File, taxRates map[int]*report.TaxRateRow) error {
	if _, err := f.NewSheet(sheetTax); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	e.setRow(f, sheetTax, 1, "GST Rate", "Taxable Value", "CGST", "SGST", "IGST")

	rates := make([]int, 0, len(taxRates))
	for rate := range taxRates {
		rates = append(rates, rate)
	}
	sort.Ints(rates)

	for i, rate := range rates {
		row := taxRates[rate]
		e.setRow(f, sheetTax, i+2,
			fmt.Sprintf("%d%%", rate),
			row.TaxableValue.StringFixed(2),
			row.CGST.StringFixed(2),
			row.SGST.StringFixed(2),
			row.IGST.StringFixed(2))
	}
	return nil
}

// setRow writes values left to right starting at column A of the given
// 1-indexed row.
func (e *Exporter) setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			e.logger.Warn("Invalid cell coordinates",
				zap.String("sheet", sheet), zap.Int("row", row), zap.Int("col", col+1))
			continue
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			e.logger.Warn("Failed to set cell value",
				zap.String("sheet", sheet), zap.String("cell", cell), zap.Error(err))
		}
	}
}
