package ledger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/billing"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedInvoice builds a real invoice with net amount 1000 through the billing
// engine so the ledger is exercised against genuine data.
func seedInvoice(t *testing.T, db *gorm.DB) (*models.Invoice, models.Party) {
	t.Helper()

	company := models.Company{Name: "Acme Traders"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	party := models.Party{Name: "Sharma Electronics", Type: models.PartyTypeCustomer}
	if err := db.Create(&party).Error; err != nil {
		t.Fatalf("seed party: %v", err)
	}
	shop := models.ShopProfile{ShopName: "City Mobiles"}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	item := models.Item{
		Name: "Handset", Unit: "pcs", SalePrice: 1000,
		StockQuantity: 10, GSTRate: 0, CompanyID: company.ID,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	inv, err := billing.NewService(db, 1).CreateInvoice(party.ID, shop.ID, date(2024, 3, 15), []billing.CreateLine{
		{ItemID: item.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	if inv.NetAmount != 1000 {
		t.Fatalf("seed invoice net = %v, want 1000", inv.NetAmount)
	}
	return inv, party
}

func reloadInvoice(t *testing.T, db *gorm.DB, id uint) models.Invoice {
	t.Helper()
	var inv models.Invoice
	if err := db.First(&inv, id).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	return inv
}

func TestPaymentLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, 1)
	inv, party := seedInvoice(t, db)

	// 400 of 1000 -> partial
	if _, err := svc.RecordPayment(inv.ID, party.ID, 400, models.PaymentModeCash, date(2024, 3, 16)); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	got := reloadInvoice(t, db, inv.ID)
	if got.Status != models.InvoiceStatusPartial || got.PaidTotal != 400 {
		t.Fatalf("after 400: status=%q paid=%v, want partial/400", got.Status, got.PaidTotal)
	}

	// +600 -> paid
	if _, err := svc.RecordPayment(inv.ID, party.ID, 600, models.PaymentModeUPI, date(2024, 3, 17)); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	got = reloadInvoice(t, db, inv.ID)
	if got.Status != models.InvoiceStatusPaid || got.PaidTotal != 1000 {
		t.Fatalf("after 1000: status=%q paid=%v, want paid/1000", got.Status, got.PaidTotal)
	}

	// any further amount -> overpayment, paid total unchanged
	_, err := svc.RecordPayment(inv.ID, party.ID, 0.01, models.PaymentModeCard, date(2024, 3, 18))
	var op *apperr.OverpaymentError
	if !errors.As(err, &op) {
		t.Fatalf("err = %v, want OverpaymentError", err)
	}
	got = reloadInvoice(t, db, inv.ID)
	if got.PaidTotal != 1000 {
		t.Errorf("paid total after rejected payment = %v, want 1000", got.PaidTotal)
	}
	var count int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).Count(&count)
	if count != 2 {
		t.Errorf("payment count = %d, want 2", count)
	}
}

func TestOverpaymentRejectedOutright(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, 1)
	inv, party := seedInvoice(t, db)

	_, err := svc.RecordPayment(inv.ID, party.ID, 1500, models.PaymentModeBankTransfer, date(2024, 3, 16))
	var op *apperr.OverpaymentError
	if !errors.As(err, &op) {
		t.Fatalf("err = %v, want OverpaymentError", err)
	}
	if op.NetAmount != 1000 || op.PaidTotal != 0 {
		t.Errorf("error detail = %+v", op)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.PaidTotal != 0 || got.Status != models.InvoiceStatusUnpaid {
		t.Errorf("invoice mutated by rejected payment: %+v", got)
	}
}

func TestDeletePaymentDowngradesStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, 1)
	inv, party := seedInvoice(t, db)

	p1, err := svc.RecordPayment(inv.ID, party.ID, 400, models.PaymentModeCash, date(2024, 3, 16))
	if err != nil {
		t.Fatalf("payment 1: %v", err)
	}
	if _, err := svc.RecordPayment(inv.ID, party.ID, 600, models.PaymentModeCash, date(2024, 3, 17)); err != nil {
		t.Fatalf("payment 2: %v", err)
	}

	if err := svc.DeletePayment(p1.ID); err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	got := reloadInvoice(t, db, inv.ID)
	if got.Status != models.InvoiceStatusPartial || got.PaidTotal != 600 {
		t.Errorf("after delete: status=%q paid=%v, want partial/600", got.Status, got.PaidTotal)
	}

	// Room freed by the delete can be paid again.
	if _, err := svc.RecordPayment(inv.ID, party.ID, 400, models.PaymentModeUPI, date(2024, 3, 18)); err != nil {
		t.Errorf("payment after delete rejected: %v", err)
	}
	got = reloadInvoice(t, db, inv.ID)
	if got.Status != models.InvoiceStatusPaid {
		t.Errorf("final status = %q, want paid", got.Status)
	}
}

func TestDeletePaymentToUnpaid(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, 1)
	inv, party := seedInvoice(t, db)

	p, err := svc.RecordPayment(inv.ID, party.ID, 250, models.PaymentModeCash, date(2024, 3, 16))
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := svc.DeletePayment(p.ID); err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Status != models.InvoiceStatusUnpaid || got.PaidTotal != 0 {
		t.Errorf("after delete: status=%q paid=%v, want unpaid/0", got.Status, got.PaidTotal)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, 1)
	inv, party := seedInvoice(t, db)

	tests := []struct {
		name   string
		invID  uint
		amount float64
		mode   models.PaymentMode
	}{
		{"zero amount", inv.ID, 0, models.PaymentModeCash},
		{"negative amount", inv.ID, -10, models.PaymentModeCash},
		{"bad mode", inv.ID, 100, models.PaymentMode("cheque")},
		{"missing invoice id", 0, 100, models.PaymentModeCash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(tt.invID, party.ID, tt.amount, tt.mode, date(2024, 3, 16))
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}

	_, err := svc.RecordPayment(9999, party.ID, 100, models.PaymentModeCash, date(2024, 3, 16))
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("unknown invoice err = %v, want NotFoundError", err)
	}
}

// Stored status must always equal the pure derivation from the payment set.
func TestStoredStatusMatchesDerivation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, 1)
	inv, party := seedInvoice(t, db)

	amounts := []float64{100.55, 250, 649.45}
	for _, amt := range amounts {
		if _, err := svc.RecordPayment(inv.ID, party.ID, amt, models.PaymentModeCash, date(2024, 3, 16)); err != nil {
			t.Fatalf("payment %v: %v", amt, err)
		}

		var sum float64
		db.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).
			Select("COALESCE(SUM(amount), 0)").Scan(&sum)

		got := reloadInvoice(t, db, inv.ID)
		want := models.DeriveStatus(got.NetAmount, models.Round2(sum))
		if got.Status != want {
			t.Errorf("after %v: stored status %q, derived %q", amt, got.Status, want)
		}
		if got.PaidTotal != models.Round2(sum) {
			t.Errorf("after %v: stored paid %v, derived %v", amt, got.PaidTotal, models.Round2(sum))
		}
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Status != models.InvoiceStatusPaid {
		t.Errorf("final status = %q, want paid", got.Status)
	}
}
