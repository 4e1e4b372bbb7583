package report

import (
	"bytes"
	"fmt"

	"billing-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportSalesExcel writes the full invoice register into a workbook, one row
// per invoice with party, totals and settlement state.
func (s *Service) ExportSalesExcel() ([]byte, error) {
	var invoices []models.Invoice
	err := s.db.
		Preload("Party").
		Order("invoice_number ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales Register"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice No", "Date", "Party", "Total", "Tax", "Net Amount", "Paid", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for row, inv := range invoices {
		values := []any{
			inv.InvoiceNumber,
			inv.InvoiceDate.Format("2006-01-02"),
			inv.Party.Name,
			inv.TotalAmount,
			inv.TaxAmount,
			inv.NetAmount,
			inv.PaidTotal,
			string(inv.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
