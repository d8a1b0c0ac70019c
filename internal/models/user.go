package models

import (
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	DisplayName     string         `gorm:"size:128;not null;default:''" json:"display_name"`
	Role            string         `gorm:"size:20;not null;index" json:"role"` // USER | VET | ADMIN
	IsShelter       bool           `gorm:"default:false" json:"is_shelter"`
	IsVerified      bool           `gorm:"default:false" json:"is_verified"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Location        string         `gorm:"size:255" json:"location"`
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	AdoptionHistory StringList     `gorm:"type:text" json:"adoption_history"`
	Favorites       StringList     `gorm:"type:text" json:"favorites"`
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsVet() bool   { return u.Role == domain.RoleVet }
func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// Name returns the best human-readable name for display.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
