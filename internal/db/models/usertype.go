package models

import (
	"gorm.io/gorm"
)

type UserType struct {
	gorm.Model
	Name  string `gorm:"uniqueIndex;not null"`
	Users []User `gorm:"foreignKey:UserTypeID"`
}
