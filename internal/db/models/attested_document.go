package models

import (
	"gorm.io/gorm"
)

// AttestedDocument is the countersignature record written when a commissioner
// attests a document. At most one row may ever exist per reference code; the
// unique index is the guard, not the application pre-check.
type AttestedDocument struct {
	gorm.Model
	ID             string `gorm:"primaryKey"`
	ReferenceCode  string `gorm:"uniqueIndex;not null"`
	Content        string `gorm:"not null"`
	CommissionerID string `gorm:"index;not null"`
}
