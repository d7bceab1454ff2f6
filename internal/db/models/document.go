package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentStatus string

const (
	StatusSaved    DocumentStatus = "SAVED"
	StatusPaid     DocumentStatus = "PAID"
	StatusAttested DocumentStatus = "ATTESTED"
)

type Document struct {
	gorm.Model
	ID            string `gorm:"primaryKey"`
	TemplateName  string `gorm:"not null"`
	Content       string `gorm:"not null"`
	Data          datatypes.JSON
	Status        DocumentStatus `gorm:"not null;default:'SAVED'"`
	ReferenceCode *string        `gorm:"uniqueIndex"` // nil until paid and a reference is generated
	QRCode        string         // base64-encoded PNG of the reference lookup URL
	UserID        string         `gorm:"index;not null"`
}
