package models

import "time"

type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeSupplier PartyType = "supplier"
	PartyTypeBoth     PartyType = "both"
)

func (t PartyType) Valid() bool {
	switch t {
	case PartyTypeCustomer, PartyTypeSupplier, PartyTypeBoth:
		return true
	}
	return false
}

type Party struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Type      PartyType `gorm:"size:20;index;not null"`
	Email     string    `gorm:"size:100"`
	Phone     string    `gorm:"size:20"`
	Address   string    `gorm:"size:255"`
	GSTNumber string    `gorm:"size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
