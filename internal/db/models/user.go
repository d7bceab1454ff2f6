package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID             string `gorm:"primaryKey"`
	FirstName      string `gorm:"not null"`
	LastName       string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Phone          string
	Address        string
	HashedPassword string `gorm:"not null"` // Bcrypt hash of password
	Image          string
	IsActive       bool `gorm:"not null;default:true"`
	LastLogin      time.Time
	UserTypeID     uint     `gorm:"index;not null"`
	UserType       UserType `gorm:"foreignKey:UserTypeID"`
	Documents      []Document
}
