package billing

import (
	"fmt"
	"time"

	"billing-backend/internal/audit"
	"billing-backend/internal/auth"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateInvoiceRequest struct {
	PartyID     uint         `json:"party_id"`
	ShopID      uint         `json:"shop_id"`
	InvoiceDate string       `json:"invoice_date"` // "2006-01-02"
	Items       []CreateLine `json:"items"`
}

type InvoiceItemResponse struct {
	ID       uint    `json:"id"`
	ItemID   uint    `json:"item_id"`
	ItemName string  `json:"item_name,omitempty"`
	Quantity float64 `json:"quantity"`
	Discount float64 `json:"discount"`
	Price    float64 `json:"price"` // unit price snapshot
	GSTRate  float64 `json:"gst_rate"`
	Total    float64 `json:"total"`
}

type InvoiceResponse struct {
	ID            uint                  `json:"id"`
	InvoiceNumber int64                 `json:"invoice_number"`
	PartyID       uint                  `json:"party_id"`
	PartyName     string                `json:"party_name,omitempty"`
	ShopID        uint                  `json:"shop_id"`
	InvoiceDate   string                `json:"invoice_date"`
	TotalAmount   float64               `json:"total_amount"`
	TaxAmount     float64               `json:"tax_amount"`
	NetAmount     float64               `json:"net_amount"`
	PaidTotal     float64               `json:"paid_total"`
	Status        models.InvoiceStatus  `json:"status"`
	Items         []InvoiceItemResponse `json:"items"`
}

func toInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		PartyID:       inv.PartyID,
		PartyName:     inv.Party.Name,
		ShopID:        inv.ShopID,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		TotalAmount:   inv.TotalAmount,
		TaxAmount:     inv.TaxAmount,
		NetAmount:     inv.NetAmount,
		PaidTotal:     inv.PaidTotal,
		Status:        inv.Status,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:       it.ID,
			ItemID:   it.ItemID,
			ItemName: it.Item.Name,
			Quantity: it.Quantity,
			Discount: it.Discount,
			Price:    it.UnitPrice,
			GSTRate:  it.GSTRate,
			Total:    it.LineTotal,
		})
	}
	return resp
}

// POST /invoice/create
func CreateInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		invoiceDate, err := time.Parse("2006-01-02", body.InvoiceDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invoice_date must be 'YYYY-MM-DD'")
		}

		invoice, err := svc.CreateInvoice(body.PartyID, body.ShopID, invoiceDate, body.Items)
		if err != nil {
			return err
		}

		userID, _ := auth.UserIDFromCtx(c)
		userEmail, _ := auth.UserEmailFromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userEmail,
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("invoice #%d for party %d, net %.2f", invoice.InvoiceNumber, invoice.PartyID, invoice.NetAmount),
			Snapshot:    invoice,
		})

		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(invoice))
	}
}

// GET /invoice/get?invoice_id=
func GetInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("invoice_id")
		if id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invoice_id is required")
		}

		invoice, err := svc.GetInvoice(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(toInvoiceResponse(invoice))
	}
}

// GET /invoice/get-all
func ListInvoicesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		invoices, err := svc.ListInvoices()
		if err != nil {
			return err
		}
		return c.JSON(invoiceListResponse(invoices))
	}
}

// GET /invoice/get-all-unpaid
func ListUnpaidInvoicesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		invoices, err := svc.ListUnpaidInvoices()
		if err != nil {
			return err
		}
		return c.JSON(invoiceListResponse(invoices))
	}
}

func invoiceListResponse(invoices []models.Invoice) []InvoiceResponse {
	resp := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		resp = append(resp, toInvoiceResponse(&invoices[i]))
	}
	return resp
}

// DELETE /invoice/delete?id=
func DeleteInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("id")
		if id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is required")
		}

		invoice, err := svc.GetInvoice(uint(id))
		if err != nil {
			return err
		}
		if err := svc.DeleteInvoice(uint(id)); err != nil {
			return err
		}

		userID, _ := auth.UserIDFromCtx(c)
		userEmail, _ := auth.UserEmailFromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userEmail,
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("deleted invoice #%d", invoice.InvoiceNumber),
			Snapshot:    invoice,
		})

		return c.JSON(fiber.Map{"message": "invoice deleted"})
	}
}

// GET /invoice/get-invoice-pdf?invoice_id=
func InvoicePDFHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("invoice_id")
		if id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invoice_id is required")
		}

		invoice, err := svc.GetInvoice(uint(id))
		if err != nil {
			return err
		}

		pdf, err := RenderInvoicePDF(invoice)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not render invoice PDF")
		}

		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Invoice_%d.pdf"`, invoice.InvoiceNumber))
		return c.Send(pdf)
	}
}
