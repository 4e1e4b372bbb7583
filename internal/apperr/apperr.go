package apperr

import (
	"errors"
	"fmt"
)

// ValidationError: a request field is missing or out of range.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError: a referenced id does not exist.
type NotFoundError struct {
	Entity string `json:"entity"`
	ID     uint   `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InsufficientStockError identifies the offending line so the client can
// render an actionable message without a second round trip.
type InsufficientStockError struct {
	ItemID    uint    `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Requested float64 `json:"requested"`
	Available float64 `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d (%s): requested %g, available %g",
		e.ItemID, e.ItemName, e.Requested, e.Available)
}

// OverpaymentError: the payment would push the paid total past the net amount.
type OverpaymentError struct {
	InvoiceID uint    `json:"invoice_id"`
	Amount    float64 `json:"amount"`
	PaidTotal float64 `json:"paid_total"`
	NetAmount float64 `json:"net_amount"`
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %g exceeds invoice %d net amount (paid %g of %g)",
		e.Amount, e.InvoiceID, e.PaidTotal, e.NetAmount)
}

// ConflictError: the operation is blocked by existing references or a
// concurrent modification.
type ConflictError struct {
	Reason string `json:"reason"`
}

func (e *ConflictError) Error() string { return e.Reason }

func Conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

// ErrStorage wraps backend failures that survived the bounded retry.
var ErrStorage = errors.New("storage failure")

func Storage(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
