package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pawelks/receipt-resolver/internal/entity"
)

// Service renders a resolved receipt as an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReceiptXLSX returns a workbook with one row per resolved line item plus a
// summary block.
func (s *Service) ReceiptXLSX(r *entity.ResolvedReceipt) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Items"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Product",
		"Category",
		"Unit",
		"Quantity",
		"Unit Price",
		"Total",
		"Source",
		"Confidence",
		"Raw Line",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for _, it := range r.Items {
		write(1, it.Match.Name)
		write(2, it.Match.Category)
		write(3, it.Match.Unit)
		write(4, it.Quantity)
		write(5, it.UnitPrice)
		write(6, it.Total)
		write(7, it.Match.Source)
		write(8, fmt.Sprintf("%.2f", it.Match.Confidence))
		write(9, it.RawLine)
		row++
	}

	// Summary block below the items.
	row++
	write(1, "Shop")
	write(2, r.Shop)
	row++
	write(1, "Date")
	if r.Date != nil {
		write(2, r.Date.Format("2006-01-02"))
	} else {
		write(2, "")
	}
	row++
	write(1, "Total")
	write(2, r.TotalAmount)
	row++
	write(1, "Cache hit rate")
	write(2, fmt.Sprintf("%.0f%%", r.Stats.CacheHitRate*100))

	_ = f.SetColWidth(sheet, "A", "A", 28) // product
	_ = f.SetColWidth(sheet, "B", "B", 18) // category
	_ = f.SetColWidth(sheet, "D", "F", 12) // amounts
	_ = f.SetColWidth(sheet, "I", "I", 40) // raw line

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"shop", r.Shop,
		"rows", len(r.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
