package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a chat thread, normally one per (user pair, post).
// PetName, AdopterName and OwnerName are denormalized display names
// cached by the conversation list builder; duplicates that slip past the
// create-time guard are collapsed by the merge routine.
type Conversation struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255" json:"title"`
	PostID      *uint          `gorm:"index" json:"post_id"`
	PetName     string         `gorm:"size:128" json:"pet_name"`
	AdopterName string         `gorm:"size:128" json:"adopter_name"`
	OwnerName   string         `gorm:"size:128" json:"owner_name"`
	IsGroup     bool           `gorm:"default:false" json:"is_group"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// UserConversation is a membership row with the user's read cursor.
// LastReadAt drives unread-count computation; nil means epoch.
type UserConversation struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index:idx_conv_user,unique" json:"conversation_id"`
	UserID         uint       `gorm:"not null;index:idx_conv_user,unique" json:"user_id"`
	LastReadAt     *time.Time `json:"last_read_at"`
	JoinedAt       time.Time  `json:"joined_at"`

	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}

func (UserConversation) TableName() string { return "user_conversations" }

// LastRead returns the read cursor, defaulting to the epoch.
func (uc *UserConversation) LastRead() time.Time {
	if uc.LastReadAt == nil {
		return time.Unix(0, 0)
	}
	return *uc.LastReadAt
}

// Message is append-only; only IsRead ever changes after insert.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	Content        string    `gorm:"type:text" json:"content"`
	ImageURL       string    `gorm:"size:512" json:"image_url"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`

	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
}

func (Message) TableName() string { return "messages" }
