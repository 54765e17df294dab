package models

import (
	"time"
)

// Item holds the columns shared by every per-date record a user owns.
type Item struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index:,composite:user_date,priority:1" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Date      string    `gorm:"type:varchar(10);not null;index:,composite:user_date,priority:2" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// Kind describes how one item table names its completion flag.
type Kind struct {
	// Name is the singular resource name used in messages ("task").
	Name string
	// Flag is both the column and the JSON field of the completion flag.
	Flag string
}

var (
	TaskKind = Kind{Name: "task", Flag: "completed"}
	NoteKind = Kind{Name: "note", Flag: "done"}
)

// Entry is implemented by pointers to the concrete item models.
type Entry interface {
	Base() *Item
	Kind() Kind
	Flag() bool
}
