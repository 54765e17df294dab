package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	LoginKey     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"loginKey"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	CreatedAt    time.Time `json:"createdAt"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notes []Note `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
