package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pawelks/receipt-resolver/internal/entity"
)

func sampleReceipt() *entity.ResolvedReceipt {
	date := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	return &entity.ResolvedReceipt{
		Shop: "BIEDRONKA",
		Date: &date,
		Items: []entity.ResolvedLineItem{
			{
				RawLine: "MLEKO 3.2% 1L  4,99",
				Match: entity.ProductMatch{
					Name: "Mleko", Category: "NABIAŁ", Unit: "l",
					Confidence: 1.0, Source: entity.SourceCache,
				},
				Quantity: 1.0, UnitPrice: 4.99, Total: 4.99,
			},
			{
				RawLine: "CHLEB ZYTNI  6,50",
				Match: entity.ProductMatch{
					Name: "Chleb żytni", Category: "PIECZYWO", Unit: "szt",
					Confidence: 0.85, Source: entity.SourceFuzzy,
				},
				Quantity: 1.0, UnitPrice: 6.50, Total: 6.50,
			},
		},
		TotalAmount: 11.49,
		Stats:       entity.ResolveStats{CacheHitRate: 0.5},
	}
}

func TestReceiptXLSX(t *testing.T) {
	svc := NewService(nil)

	data, err := svc.ReceiptXLSX(sampleReceipt())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Items"

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Product", header)

	name, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "Mleko", name)
	category, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "NABIAŁ", category)
	source, _ := f.GetCellValue(sheet, "G3")
	assert.Equal(t, entity.SourceFuzzy, source)
	raw, _ := f.GetCellValue(sheet, "I3")
	assert.Equal(t, "CHLEB ZYTNI  6,50", raw)

	// Summary block starts one blank row below the items.
	label, _ := f.GetCellValue(sheet, "A5")
	assert.Equal(t, "Shop", label)
	shop, _ := f.GetCellValue(sheet, "B5")
	assert.Equal(t, "BIEDRONKA", shop)
	date, _ := f.GetCellValue(sheet, "B6")
	assert.Equal(t, "2024-03-17", date)
	rate, _ := f.GetCellValue(sheet, "B8")
	assert.Equal(t, "50%", rate)
}

func TestReceiptXLSXEmptyReceipt(t *testing.T) {
	svc := NewService(nil)

	data, err := svc.ReceiptXLSX(&entity.ResolvedReceipt{Shop: "UNKNOWN"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	label, _ := f.GetCellValue("Items", "A3")
	assert.Equal(t, "Shop", label)
	date, _ := f.GetCellValue("Items", "B4")
	assert.Empty(t, date)
}
