package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Set by forgot-password, consumed once by reset-password.
	ResetToken       string `gorm:"size:64;index"`
	ResetTokenExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
