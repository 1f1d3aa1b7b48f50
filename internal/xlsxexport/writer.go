// Package xlsxexport renders receiving reports as Excel workbooks.
package xlsxexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"recivo/internal/domain"
)

var itemHeaders = []string{
	"position", "name", "expected_qty", "actual_qty", "unit_price", "status", "notes",
}

// WriteReport serializes a report into a single-sheet workbook: a metadata
// block, a blank row, then one row per line item.
func WriteReport(report *domain.ReceivingReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}

	set(1, 1, "Receiving Report")
	set(1, 2, "vendor")
	set(2, 2, report.VendorName)
	set(1, 3, "invoice_number")
	set(2, 3, report.InvoiceNumber)
	set(1, 4, "created_at")
	set(2, 4, report.CreatedAt.Format("2006-01-02 15:04:05"))
	set(1, 5, "total_items")
	set(2, 5, report.TotalItems)
	set(1, 6, "matched_items")
	set(2, 6, report.MatchedItems)
	set(1, 7, "issue_items")
	set(2, 7, report.IssueItems)

	const tableStart = 9
	for i, h := range itemHeaders {
		set(i+1, tableStart, h)
	}
	for i, item := range report.Items {
		r := tableStart + 1 + i
		set(1, r, item.Position)
		set(2, r, item.Name)
		set(3, r, item.ExpectedQty)
		set(4, r, item.ActualQty)
		if item.UnitPrice != nil {
			set(5, r, item.UnitPrice.String())
		}
		set(6, r, string(item.Status))
		set(7, r, item.Notes)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
