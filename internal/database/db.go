package database

import (
	"errors"
	"strings"
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/config"
	"billing-backend/internal/logger"
	"billing-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	dblog := logger.WithComponent("database")

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		dblog.Fatal().Err(err).Msg("cannot connect to database")
	}

	if err := Migrate(DB); err != nil {
		dblog.Fatal().Err(err).Msg("migration failed")
	}

	dblog.Info().Msg("database connected, migration complete")
}

// Migrate runs AutoMigrate and seeds the invoice number sequence. Split out
// from Init so tests can run it against their own gorm.DB.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Item{},
		&models.Party{},
		&models.ShopProfile{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.NumberSequence{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// Seed the invoice counter if absent. FirstOrCreate keeps reruns safe.
	seq := models.NumberSequence{Name: models.SeqInvoiceNumber, Next: 1}
	return db.Where(models.NumberSequence{Name: models.SeqInvoiceNumber}).
		FirstOrCreate(&seq).Error
}

// transient reports whether an error is worth retrying: serialization
// failures, deadlocks, dropped connections.
func transient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"40001", "40P01", // serialization_failure, deadlock_detected
		"connection reset", "connection refused", "broken pipe",
		"database is locked", // sqlite under test
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Transact runs fn in a transaction, retrying transient failures with
// exponential backoff. Domain errors pass through untouched on the first
// attempt; an exhausted transient failure surfaces as apperr.ErrStorage so
// the HTTP layer answers 503 rather than a generic 500.
func Transact(db *gorm.DB, retries int, fn func(tx *gorm.DB) error) error {
	if retries < 1 {
		retries = 1
	}

	backoff := 50 * time.Millisecond
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			dblog := logger.WithComponent("database")
			dblog.Warn().Err(err).Int("attempt", attempt).
				Msg("retrying transaction after transient storage error")
			time.Sleep(backoff)
			backoff *= 2
		}
		err = db.Transaction(fn)
		if err == nil || !transient(err) {
			return err
		}
	}
	return apperr.Storage(err)
}

// NotFound unwraps gorm's record-not-found sentinel.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
