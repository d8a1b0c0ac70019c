package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a pet listing. Retirement is a status change, never a hard delete.
type Post struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OwnerID          uint           `gorm:"not null;index" json:"owner_id"`
	Name             string         `gorm:"size:128;not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	Species          string         `gorm:"size:64;index" json:"species"`
	Breed            string         `gorm:"size:128" json:"breed"`
	Age              int            `json:"age"`
	Size             string         `gorm:"size:20" json:"size"` // Small | Medium | Large
	Temperament      StringList     `gorm:"type:text" json:"temperament"`
	Vaccinated       bool           `gorm:"default:false" json:"vaccinated"`
	HealthNotes      string         `gorm:"type:text" json:"health_notes"`
	Location         string         `gorm:"size:255" json:"location"`
	ImageURL         string         `gorm:"size:512" json:"image_url"`
	AdditionalImages StringList     `gorm:"type:text" json:"additional_images"`
	Status           string         `gorm:"size:20;not null;index" json:"status"`     // Available | Pending | Adopted
	VetStatus        string         `gorm:"size:20;not null;index" json:"vet_status"` // pending | approved | rejected
	CommunityID      *uint          `gorm:"index" json:"community_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Owner     User       `gorm:"foreignKey:OwnerID" json:"-"`
	Community *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
}

func (Post) TableName() string { return "posts" }
