package xlsxexport_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"recivo/internal/domain"
	"recivo/internal/xlsxexport"
)

func TestWriteReport(t *testing.T) {
	price := decimal.NewFromFloat(12.50)
	reportID := uuid.New()
	report := &domain.ReceivingReport{
		ID:            reportID,
		VendorName:    "Acme Foods",
		InvoiceNumber: "INV-42",
		TotalItems:    2,
		MatchedItems:  1,
		IssueItems:    1,
		CreatedAt:     time.Date(2026, 8, 12, 10, 30, 0, 0, time.UTC),
		Items: []domain.ReportItem{
			{ReportID: reportID, Position: 0, Name: "Flour 10kg", ExpectedQty: 4, ActualQty: 4, UnitPrice: &price, Status: domain.StatusMatch},
			{ReportID: reportID, Position: 1, Name: "Olive Oil 5L", ExpectedQty: 2, ActualQty: 1, Status: domain.StatusShortage, Notes: "one bottle short"},
		},
	}

	data, err := xlsxexport.WriteReport(report)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Receiving Report", get("A1"))
	assert.Equal(t, "Acme Foods", get("B2"))
	assert.Equal(t, "INV-42", get("B3"))
	assert.Equal(t, "2", get("B5"))

	// Item table starts after the metadata block.
	assert.Equal(t, "name", get("B9"))
	assert.Equal(t, "Flour 10kg", get("B10"))
	assert.Equal(t, "12.5", get("E10"))
	assert.Equal(t, "match", get("F10"))
	assert.Equal(t, "shortage", get("F11"))
	assert.Equal(t, "one bottle short", get("G11"))
}

func TestWriteReport_EmptyItems(t *testing.T) {
	report := &domain.ReceivingReport{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}

	data, err := xlsxexport.WriteReport(report)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
