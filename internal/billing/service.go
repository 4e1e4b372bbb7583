package billing

import (
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"gorm.io/gorm"
)

// Service owns invoice creation and deletion. Everything that touches stock
// or the invoice number sequence runs inside a single transaction.
type Service struct {
	db      *gorm.DB
	retries int
}

func NewService(db *gorm.DB, retries int) *Service {
	return &Service{db: db, retries: retries}
}

type CreateLine struct {
	ItemID   uint    `json:"item_id"`
	Quantity float64 `json:"quantity"`
	Discount float64 `json:"discount"`
}

// CreateInvoice validates the party, shop and lines, snapshots prices,
// decrements stock and assigns the next invoice number. Stock decrements and
// invoice persistence commit together or not at all.
func (s *Service) CreateInvoice(partyID, shopID uint, invoiceDate time.Time, lines []CreateLine) (*models.Invoice, error) {
	if partyID == 0 {
		return nil, apperr.Validation("party_id", "required")
	}
	if shopID == 0 {
		return nil, apperr.Validation("shop_id", "required")
	}
	if len(lines) == 0 {
		return nil, apperr.Validation("items", "at least one line is required")
	}
	for _, line := range lines {
		if line.ItemID == 0 {
			return nil, apperr.Validation("items.item_id", "required")
		}
		if line.Quantity <= 0 {
			return nil, apperr.Validation("items.quantity", "must be greater than zero")
		}
		if line.Discount < 0 {
			return nil, apperr.Validation("items.discount", "must not be negative")
		}
	}

	var created models.Invoice
	err := database.Transact(s.db, s.retries, func(tx *gorm.DB) error {
		var party models.Party
		if err := tx.First(&party, "id = ?", partyID).Error; err != nil {
			if database.NotFound(err) {
				return apperr.NotFound("party", partyID)
			}
			return err
		}

		var shop models.ShopProfile
		if err := tx.First(&shop, "id = ?", shopID).Error; err != nil {
			if database.NotFound(err) {
				return apperr.NotFound("shop_profile", shopID)
			}
			return err
		}

		number, err := nextInvoiceNumber(tx)
		if err != nil {
			return err
		}

		invoice := models.Invoice{
			InvoiceNumber: number,
			PartyID:       partyID,
			ShopID:        shopID,
			InvoiceDate:   invoiceDate,
			Status:        models.InvoiceStatusUnpaid,
		}

		for _, line := range lines {
			var item models.Item
			if err := tx.First(&item, "id = ?", line.ItemID).Error; err != nil {
				if database.NotFound(err) {
					return apperr.NotFound("item", line.ItemID)
				}
				return err
			}

			// Conditional decrement closes the overselling race: the WHERE
			// clause re-checks availability at write time, so two concurrent
			// invoices cannot both consume the same stock.
			res := tx.Model(&models.Item{}).
				Where("id = ? AND stock_quantity >= ?", line.ItemID, line.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &apperr.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Requested: line.Quantity,
					Available: item.StockQuantity,
				}
			}

			lineTotal := models.Round2(item.SalePrice*line.Quantity - line.Discount)
			if lineTotal < 0 {
				lineTotal = 0
			}
			tax := models.Round2(lineTotal * item.GSTRate / 100)

			invoice.Items = append(invoice.Items, models.InvoiceItem{
				ItemID:    item.ID,
				Quantity:  line.Quantity,
				Discount:  line.Discount,
				UnitPrice: item.SalePrice, // snapshot, later price edits must not rewrite history
				GSTRate:   item.GSTRate,
				LineTotal: lineTotal,
			})
			invoice.TotalAmount = models.Round2(invoice.TotalAmount + lineTotal)
			invoice.TaxAmount = models.Round2(invoice.TaxAmount + tax)
		}
		invoice.NetAmount = models.Round2(invoice.TotalAmount + invoice.TaxAmount)

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetInvoice(created.ID)
}

// nextInvoiceNumber bumps the sequence row and reads back the value it
// reserved. The UPDATE takes a row lock, so concurrent creations serialize
// here and numbers come out strictly increasing without reuse.
func nextInvoiceNumber(tx *gorm.DB) (int64, error) {
	res := tx.Model(&models.NumberSequence{}).
		Where("name = ?", models.SeqInvoiceNumber).
		Update("next", gorm.Expr("next + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// First invoice on a store that predates the seed.
		seq := models.NumberSequence{Name: models.SeqInvoiceNumber, Next: 2}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq models.NumberSequence
	if err := tx.First(&seq, "name = ?", models.SeqInvoiceNumber).Error; err != nil {
		return 0, err
	}
	return seq.Next - 1, nil
}

func (s *Service) GetInvoice(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.
		Preload("Items").
		Preload("Items.Item").
		Preload("Party").
		Preload("Shop").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if database.NotFound(err) {
			return nil, apperr.NotFound("invoice", id)
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) ListInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.
		Preload("Items").
		Preload("Party").
		Order("invoice_number DESC").
		Find(&invoices).Error
	return invoices, err
}

// ListUnpaidInvoices returns invoices still open for payment, used by the
// client to restrict the invoice picker on the payment form.
func (s *Service) ListUnpaidInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.
		Preload("Items").
		Preload("Party").
		Where("status <> ?", models.InvoiceStatusPaid).
		Order("invoice_number DESC").
		Find(&invoices).Error
	return invoices, err
}

// DeleteInvoice removes an invoice and its lines. Deletion is blocked while
// payments reference it; payments must be deleted first. Stock consumed by
// the invoice is not restored, the goods are assumed to have left the shop.
func (s *Service) DeleteInvoice(id uint) error {
	return database.Transact(s.db, s.retries, func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", id).Error; err != nil {
			if database.NotFound(err) {
				return apperr.NotFound("invoice", id)
			}
			return err
		}

		var paymentCount int64
		if err := tx.Model(&models.Payment{}).Where("invoice_id = ?", id).Count(&paymentCount).Error; err != nil {
			return err
		}
		if paymentCount > 0 {
			return apperr.Conflict("invoice has recorded payments, delete them first")
		}

		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}
