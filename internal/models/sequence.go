package models

// NumberSequence backs transactional counters (invoice numbers). The row is
// bumped with a single UPDATE inside the creating transaction, so concurrent
// creations serialize on it and numbers are never handed out twice.
type NumberSequence struct {
	Name string `gorm:"primaryKey;size:50"`
	Next int64  `gorm:"not null;default:1"`
}

const SeqInvoiceNumber = "invoice_number"
