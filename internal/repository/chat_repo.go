package repository

import (
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"

	"gorm.io/gorm"
)

// ChatRepository covers conversations, memberships and messages. They
// always change together, so they share one repository.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) MembershipsByUser(userID uint) ([]models.UserConversation, error) {
	var list []models.UserConversation
	err := r.db.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *ChatRepository) MembershipsByConversation(convID uint) ([]models.UserConversation, error) {
	var list []models.UserConversation
	err := r.db.Where("conversation_id = ?", convID).Find(&list).Error
	return list, err
}

func (r *ChatRepository) Membership(convID, userID uint) (*models.UserConversation, error) {
	var uc models.UserConversation
	if err := r.db.Where("conversation_id = ? AND user_id = ?", convID, userID).First(&uc).Error; err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *ChatRepository) GetConversation(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindDirect looks for an existing one-to-one conversation between two
// users for the given post context.
func (r *ChatRepository) FindDirect(userA, userB uint, postID *uint) (*models.Conversation, error) {
	q := r.db.Model(&models.Conversation{}).
		Joins("JOIN user_conversations a ON a.conversation_id = conversations.id AND a.user_id = ?", userA).
		Joins("JOIN user_conversations b ON b.conversation_id = conversations.id AND b.user_id = ?", userB).
		Where("conversations.is_group = ?", false)
	if postID != nil {
		q = q.Where("conversations.post_id = ?", *postID)
	} else {
		q = q.Where("conversations.post_id IS NULL")
	}
	var conv models.Conversation
	if err := q.Order("conversations.created_at ASC").First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateDirect creates a conversation plus both membership rows in one
// transaction. Find-or-create lives in the service; this is the create half.
func (r *ChatRepository) CreateDirect(conv *models.Conversation, userA, userB uint) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		memberships := []models.UserConversation{
			{ConversationID: conv.ID, UserID: userA, JoinedAt: now},
			{ConversationID: conv.ID, UserID: userB, JoinedAt: now},
		}
		return tx.Create(&memberships).Error
	})
}

// UpdatePetName writes back the resolved display name; callers treat a
// failure as non-fatal (the name resolves again on the next load).
func (r *ChatRepository) UpdatePetName(convID uint, name string) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", convID).Update("pet_name", name).Error
}

func (r *ChatRepository) UpdateParticipantNames(convID uint, adopterName, ownerName string) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", convID).
		Updates(map[string]interface{}{"adopter_name": adopterName, "owner_name": ownerName}).Error
}

// AdvanceLastRead moves the reader's cursor forward.
func (r *ChatRepository) AdvanceLastRead(convID, userID uint, t time.Time) error {
	return r.db.Model(&models.UserConversation{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Update("last_read_at", t).Error
}

func (r *ChatRepository) DeleteMemberships(convID uint) error {
	return r.db.Where("conversation_id = ?", convID).Delete(&models.UserConversation{}).Error
}

func (r *ChatRepository) DeleteConversation(id uint) error {
	return r.db.Delete(&models.Conversation{}, id).Error
}

// ListWithPost returns every one-to-one conversation tied to a post;
// the merge sweeper groups these by (participant pair, post).
func (r *ChatRepository) ListWithPost() ([]models.Conversation, error) {
	var list []models.Conversation
	err := r.db.Where("is_group = ? AND post_id IS NOT NULL", false).
		Order("created_at ASC").Find(&list).Error
	return list, err
}

// --- messages ---

func (r *ChatRepository) CreateMessage(m *models.Message) error {
	return r.db.Create(m).Error
}

func (r *ChatRepository) ListMessages(convID uint, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("conversation_id = ?", convID).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ChatRepository) LatestMessage(convID uint) (*models.Message, error) {
	var m models.Message
	if err := r.db.Where("conversation_id = ?", convID).Order("created_at DESC").First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CountUnread counts messages not sent by the user and strictly newer
// than the read cursor.
func (r *ChatRepository) CountUnread(convID, userID uint, lastRead time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND created_at > ?", convID, userID, lastRead).
		Count(&n).Error
	return n, err
}

// MarkMessagesRead flips is_read on every message the reader did not send.
func (r *ChatRepository) MarkMessagesRead(convID, readerID uint) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, readerID, false).
		Update("is_read", true).Error
}

// ReassignMessages moves every message from one conversation to another
// during a duplicate merge.
func (r *ChatRepository) ReassignMessages(fromConvID, toConvID uint) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ?", fromConvID).
		Update("conversation_id", toConvID).Error
}
