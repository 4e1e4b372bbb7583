package ledger

import (
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"gorm.io/gorm"
)

// Service records payments against invoices and keeps the invoice's derived
// fields (paid_total, status) in step with the payment set.
type Service struct {
	db      *gorm.DB
	retries int
}

func NewService(db *gorm.DB, retries int) *Service {
	return &Service{db: db, retries: retries}
}

// RecordPayment persists a payment and re-derives the invoice status. The
// overpayment guard is a conditional UPDATE on the invoice row, so two
// concurrent payments cannot both pass against a stale paid total.
func (s *Service) RecordPayment(invoiceID, partyID uint, amount float64, mode models.PaymentMode, txDate time.Time) (*models.Payment, error) {
	if invoiceID == 0 {
		return nil, apperr.Validation("invoice_id", "required")
	}
	if amount <= 0 {
		return nil, apperr.Validation("amount", "must be greater than zero")
	}
	if !mode.Valid() {
		return nil, apperr.Validation("payment_mode", "must be one of cash, UPI, card, bank_transfer")
	}
	amount = models.Round2(amount)

	var payment models.Payment
	err := database.Transact(s.db, s.retries, func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if database.NotFound(err) {
				return apperr.NotFound("invoice", invoiceID)
			}
			return err
		}

		if partyID == 0 {
			partyID = invoice.PartyID
		}
		var party models.Party
		if err := tx.First(&party, "id = ?", partyID).Error; err != nil {
			if database.NotFound(err) {
				return apperr.NotFound("party", partyID)
			}
			return err
		}

		// Atomic guard: only bump paid_total if the new total stays within
		// the net amount. Half-paisa tolerance matches DeriveStatus.
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND paid_total + ? <= net_amount + 0.005", invoiceID, amount).
			Update("paid_total", gorm.Expr("paid_total + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &apperr.OverpaymentError{
				InvoiceID: invoiceID,
				Amount:    amount,
				PaidTotal: invoice.PaidTotal,
				NetAmount: invoice.NetAmount,
			}
		}

		payment = models.Payment{
			InvoiceID:       invoiceID,
			PartyID:         partyID,
			PaymentMode:     mode,
			Amount:          amount,
			TransactionDate: txDate,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return rederiveInvoice(tx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeletePayment removes a payment and re-derives the invoice's paid total and
// status, which may move it back from paid to partial or unpaid.
func (s *Service) DeletePayment(id uint) error {
	return database.Transact(s.db, s.retries, func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", id).Error; err != nil {
			if database.NotFound(err) {
				return apperr.NotFound("payment", id)
			}
			return err
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		return rederiveInvoice(tx, payment.InvoiceID)
	})
}

// rederiveInvoice recomputes paid_total from the persisted payment set and
// stores it with the derived status. The stored fields are a read cache, the
// payment rows stay the source of truth.
func rederiveInvoice(tx *gorm.DB, invoiceID uint) error {
	var paidTotal float64
	err := tx.Model(&models.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paidTotal).Error
	if err != nil {
		return err
	}
	paidTotal = models.Round2(paidTotal)

	var invoice models.Invoice
	if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		return err
	}

	return tx.Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Updates(map[string]any{
			"paid_total": paidTotal,
			"status":     models.DeriveStatus(invoice.NetAmount, paidTotal),
		}).Error
}

func (s *Service) GetPayment(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Preload("Party").First(&payment, "id = ?", id).Error
	if err != nil {
		if database.NotFound(err) {
			return nil, apperr.NotFound("payment", id)
		}
		return nil, err
	}
	return &payment, nil
}

func (s *Service) ListPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.
		Preload("Party").
		Order("transaction_date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}
