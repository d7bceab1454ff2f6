package models

import (
	"gorm.io/gorm"
)

// Attestation holds a commissioner's signature and stamp images, both stored
// as base64 text. One row per user, overwritten in place on re-save.
type Attestation struct {
	gorm.Model
	UserID    string `gorm:"uniqueIndex;not null"`
	Signature string `gorm:"not null"`
	Stamp     string `gorm:"not null"`
}
