package ledger

import (
	"fmt"
	"time"

	"billing-backend/internal/audit"
	"billing-backend/internal/auth"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePaymentRequest struct {
	InvoiceID       uint    `json:"invoice_id"`
	PartyID         uint    `json:"party_id"`
	PaymentMode     string  `json:"payment_mode"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"` // "2006-01-02"
}

type PaymentResponse struct {
	ID              uint    `json:"id"`
	InvoiceID       uint    `json:"invoice_id"`
	PartyID         uint    `json:"party_id"`
	PartyName       string  `json:"party_name,omitempty"`
	PaymentMode     string  `json:"payment_mode"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		PartyID:         p.PartyID,
		PartyName:       p.Party.Name,
		PaymentMode:     string(p.PaymentMode),
		Amount:          p.Amount,
		TransactionDate: p.TransactionDate.Format("2006-01-02"),
	}
}

// POST /payment/create
func CreatePaymentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		txDate, err := time.Parse("2006-01-02", body.TransactionDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "transaction_date must be 'YYYY-MM-DD'")
		}

		payment, err := svc.RecordPayment(body.InvoiceID, body.PartyID, body.Amount,
			models.PaymentMode(body.PaymentMode), txDate)
		if err != nil {
			return err
		}

		userID, _ := auth.UserIDFromCtx(c)
		userEmail, _ := auth.UserEmailFromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userEmail,
			EntityType:  "payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("payment of %.2f (%s) against invoice %d", payment.Amount, payment.PaymentMode, payment.InvoiceID),
			Snapshot:    payment,
		})

		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
	}
}

// GET /payment/get-all
func ListPaymentsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payments, err := svc.ListPayments()
		if err != nil {
			return err
		}

		resp := make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			resp = append(resp, toPaymentResponse(&payments[i]))
		}
		return c.JSON(resp)
	}
}

// DELETE /payment/delete?id=
func DeletePaymentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("id")
		if id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is required")
		}

		payment, err := svc.GetPayment(uint(id))
		if err != nil {
			return err
		}
		if err := svc.DeletePayment(uint(id)); err != nil {
			return err
		}

		userID, _ := auth.UserIDFromCtx(c)
		userEmail, _ := auth.UserEmailFromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userEmail,
			EntityType:  "payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("deleted payment of %.2f against invoice %d", payment.Amount, payment.InvoiceID),
			Snapshot:    payment,
		})

		return c.JSON(fiber.Map{"message": "payment deleted"})
	}
}
