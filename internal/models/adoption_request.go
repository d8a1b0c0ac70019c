package models

import (
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"

	"gorm.io/gorm"
)

// AdoptionRequest is a structured inquiry from a prospective adopter
// against a post. Status moves pending -> approved|rejected, once.
type AdoptionRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	RequesterID uint           `gorm:"not null;index" json:"requester_id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Answers     string         `gorm:"type:text" json:"answers"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // pending | approved | rejected
	DecidedAt   *time.Time     `json:"decided_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Post      Post `gorm:"foreignKey:PostID" json:"-"`
	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Owner     User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (AdoptionRequest) TableName() string { return "adoption_requests" }

func (r *AdoptionRequest) IsPending() bool { return r.Status == domain.RequestStatusPending }
