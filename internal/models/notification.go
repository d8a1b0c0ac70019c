package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"` // recipient
	Type        string         `gorm:"size:50;not null;index" json:"type"`
	Message     string         `gorm:"type:text" json:"message"`
	Read        bool           `gorm:"default:false;index" json:"read"`
	Link        string         `gorm:"size:512" json:"link"`
	PostID      *uint          `gorm:"index" json:"post_id"`
	RequestID   *uint          `gorm:"index" json:"request_id"`
	RequesterID *uint          `json:"requester_id"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
