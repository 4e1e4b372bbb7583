package billing

import (
	"bytes"
	"fmt"

	"billing-backend/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// RenderInvoicePDF lays out a single-page tax invoice: shop header, party
// block, line table, totals and bank details. The invoice must be loaded with
// Party, Shop and Items.Item.
func RenderInvoicePDF(inv *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header: shop details
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, inv.Shop.ShopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, inv.Shop.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("GSTIN: %s  |  Phone: %s  |  Email: %s",
		inv.Shop.GSTIN, inv.Shop.Phone, inv.Shop.Email), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "TAX INVOICE", "T", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Invoice meta and party block
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Invoice No: %d", inv.InvoiceNumber), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", inv.InvoiceDate.Format("02-01-2006")), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, inv.Party.Name, "", 1, "L", false, 0, "")
	if inv.Party.Address != "" {
		pdf.CellFormat(0, 5, inv.Party.Address, "", 1, "L", false, 0, "")
	}
	if inv.Party.GSTNumber != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+inv.Party.GSTNumber, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Line table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(26, 7, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(24, 7, "Discount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, "GST %", "1", 0, "R", true, 0, "")
	pdf.CellFormat(28, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, line := range inv.Items {
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, line.Item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%g %s", line.Quantity, line.Item.Unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%.2f", line.Discount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.1f", line.GSTRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.2f", line.LineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// Totals, right aligned. "Rs." instead of the rupee sign keeps us on the
	// built-in fonts.
	totals := []struct {
		label string
		value float64
		bold  bool
	}{
		{"Sub Total", inv.TotalAmount, false},
		{"Tax (GST)", inv.TaxAmount, false},
		{"Net Amount", inv.NetAmount, true},
	}
	for _, t := range totals {
		if t.bold {
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(134, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("Rs. %.2f", t.value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Bank details and signatory
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Bank Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("%s  A/C: %s  IFSC: %s",
		inv.Shop.BankName, inv.Shop.AccountNumber, inv.Shop.IFSCCode), "", 1, "L", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(0, 5, "For "+inv.Shop.ShopName, "", 1, "R", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(0, 5, inv.Shop.AuthorizedSignatory, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Authorized Signatory", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
