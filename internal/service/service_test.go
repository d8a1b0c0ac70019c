package service

import (
	"testing"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/database"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  name,
		Role:         domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Post {
	t.Helper()
	p := &models.Post{
		OwnerID:   ownerID,
		Name:      name,
		Species:   "Dog",
		Status:    domain.PostStatusAvailable,
		VetStatus: domain.VetStatusApproved,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// seedMessage inserts a message with an explicit timestamp so unread
// cutoffs are deterministic.
func seedMessage(t *testing.T, db *gorm.DB, convID, senderID uint, content string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      at,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func newChatServiceForTest(t *testing.T, db *gorm.DB) *ChatService {
	t.Helper()
	return NewChatService(
		repository.NewChatRepository(db),
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewAdoptionRepository(db),
		nil, // no badge cache
		nil, // no user hub
		nil, // no chat hub
	)
}
