package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartConversation(t *testing.T) {
	db := newTestDB(t)
	svc := newChatServiceForTest(t, db)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	post := seedPost(t, db, bob.ID, "Luna")

	t.Run("SelfChatRejected", func(t *testing.T) {
		_, _, err := svc.StartConversation(alice.ID, alice.ID, nil)
		assert.ErrorIs(t, err, ErrSelfChat)
	})

	t.Run("CreatesWithPetContext", func(t *testing.T) {
		conv, created, err := svc.StartConversation(alice.ID, bob.ID, &post.ID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "Luna", conv.PetName)
		assert.Equal(t, "About Luna", conv.Title)
		assert.Equal(t, "Bob", conv.OwnerName)
		assert.Equal(t, "Alice", conv.AdopterName)
	})

	t.Run("SecondCallFindsExisting", func(t *testing.T) {
		first, _, err := svc.StartConversation(alice.ID, bob.ID, &post.ID)
		require.NoError(t, err)
		second, created, err := svc.StartConversation(bob.ID, alice.ID, &post.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("NilPostIsSeparateThread", func(t *testing.T) {
		withPost, _, err := svc.StartConversation(alice.ID, bob.ID, &post.ID)
		require.NoError(t, err)
		noPost, created, err := svc.StartConversation(alice.ID, bob.ID, nil)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, withPost.ID, noPost.ID)
	})
}

func TestUnreadCounts(t *testing.T) {
	db := newTestDB(t)
	svc := newChatServiceForTest(t, db)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	conv, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, conv.ID, bob.ID, "hi", base)
	seedMessage(t, db, conv.ID, bob.ID, "there", base.Add(time.Minute))
	seedMessage(t, db, conv.ID, bob.ID, "Alice", base.Add(2*time.Minute))
	seedMessage(t, db, conv.ID, alice.ID, "hey Bob", base.Add(3*time.Minute))

	t.Run("EpochCursorCountsEverythingFromOthers", func(t *testing.T) {
		n, err := svc.UnreadBadge(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		// own messages never count against the sender
		n, err = svc.UnreadBadge(bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("MarkReadZeroesTheCount", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(conv.ID, alice.ID))
		n, err := svc.UnreadBadge(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		var msgs []models.Message
		require.NoError(t, db.Where("conversation_id = ? AND sender_id = ?", conv.ID, bob.ID).Find(&msgs).Error)
		for _, m := range msgs {
			assert.True(t, m.IsRead)
		}
	})

	t.Run("NewMessageAfterCursorCountsAgain", func(t *testing.T) {
		seedMessage(t, db, conv.ID, bob.ID, "one more", time.Now().Add(time.Second))
		n, err := svc.UnreadBadge(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("NonMemberCannotMarkRead", func(t *testing.T) {
		mallory := seedUser(t, db, "mallory@test.local", "Mallory")
		assert.ErrorIs(t, svc.MarkRead(conv.ID, mallory.ID), ErrNotMember)
	})
}

func TestDisplayNameResolution(t *testing.T) {
	t.Run("CachedPetNameWinsAndIsNeverOverridden", func(t *testing.T) {
		db := newTestDB(t)
		svc := newChatServiceForTest(t, db)
		alice := seedUser(t, db, "alice@test.local", "Alice")
		bob := seedUser(t, db, "bob@test.local", "Bob")
		post := seedPost(t, db, bob.ID, "Luna")
		conv, _, err := svc.StartConversation(alice.ID, bob.ID, &post.ID)
		require.NoError(t, err)

		// the owner later posts another pet; the thread keeps its name
		seedPost(t, db, bob.ID, "Rex")
		list, err := svc.ListConversations(alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Luna", list[0].DisplayName)
		_ = conv
	})

	t.Run("ApprovedRequestBeatsPending", func(t *testing.T) {
		db := newTestDB(t)
		svc := newChatServiceForTest(t, db)
		alice := seedUser(t, db, "alice@test.local", "Alice")
		bob := seedUser(t, db, "bob@test.local", "Bob")
		luna := seedPost(t, db, bob.ID, "Luna")
		rex := seedPost(t, db, bob.ID, "Rex")

		require.NoError(t, db.Create(&models.AdoptionRequest{
			PostID: rex.ID, RequesterID: alice.ID, OwnerID: bob.ID, Status: domain.RequestStatusPending,
		}).Error)
		require.NoError(t, db.Create(&models.AdoptionRequest{
			PostID: luna.ID, RequesterID: alice.ID, OwnerID: bob.ID, Status: domain.RequestStatusApproved,
		}).Error)

		conv := &models.Conversation{}
		require.NoError(t, db.Create(conv).Error)
		chatRepo := repository.NewChatRepository(db)
		require.NoError(t, db.Create(&models.UserConversation{ConversationID: conv.ID, UserID: alice.ID}).Error)
		require.NoError(t, db.Create(&models.UserConversation{ConversationID: conv.ID, UserID: bob.ID}).Error)

		list, err := svc.ListConversations(alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Luna", list[0].DisplayName)

		// the resolved name was written back onto the conversation
		stored, err := chatRepo.GetConversation(conv.ID)
		require.NoError(t, err)
		assert.Equal(t, "Luna", stored.PetName)
	})

	t.Run("FallsBackToProfileName", func(t *testing.T) {
		db := newTestDB(t)
		svc := newChatServiceForTest(t, db)
		alice := seedUser(t, db, "alice@test.local", "Alice")
		bob := seedUser(t, db, "bob@test.local", "Bob")
		conv, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
		require.NoError(t, err)
		_ = conv
		list, err := svc.ListConversations(alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Bob", list[0].DisplayName)
	})
}

func TestListConversationsOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newChatServiceForTest(t, db)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	carol := seedUser(t, db, "carol@test.local", "Carol")

	older, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	newer, _, err := svc.StartConversation(alice.ID, carol.ID, nil)
	require.NoError(t, err)
	empty, _, err := svc.StartConversation(bob.ID, carol.ID, nil)
	require.NoError(t, err)
	_ = empty

	seedMessage(t, db, older.ID, bob.ID, "old", time.Now().Add(-time.Hour))
	seedMessage(t, db, newer.ID, carol.ID, "new", time.Now().Add(-time.Minute))

	list, err := svc.ListConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].Conversation.ID)
	assert.Equal(t, older.ID, list[1].Conversation.ID)
	assert.Equal(t, "new", list[0].LastMessage)
	assert.Equal(t, carol.ID, list[0].LastSenderID)
}

func TestSendMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newChatServiceForTest(t, db)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	mallory := seedUser(t, db, "mallory@test.local", "Mallory")
	conv, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	t.Run("MemberCanSend", func(t *testing.T) {
		msg, err := svc.SendMessage(conv.ID, alice.ID, "hello", "")
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
	})

	t.Run("NonMemberRejected", func(t *testing.T) {
		_, err := svc.SendMessage(conv.ID, mallory.ID, "let me in", "")
		assert.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("ImageOnlyPreview", func(t *testing.T) {
		_, err := svc.SendMessage(conv.ID, bob.ID, "", "https://img.example/1.jpg")
		require.NoError(t, err)
		list, err := svc.ListConversations(alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Sent a photo", list[0].LastMessage)
	})
}

func TestSendMessageReachesLiveRoom(t *testing.T) {
	db := newTestDB(t)
	chatHub := ws.NewChatHub()
	svc := NewChatService(
		repository.NewChatRepository(db),
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewAdoptionRepository(db),
		nil,
		nil,
		chatHub,
	)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	conv, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	listener := &ws.Client{UserID: bob.ID, Send: make(chan []byte, 4)}
	chatHub.GetOrCreateRoom(conv.ID).Join(listener)

	t.Run("RestSendIsBroadcast", func(t *testing.T) {
		sent, err := svc.SendMessage(conv.ID, alice.ID, "hello over rest", "")
		require.NoError(t, err)

		select {
		case raw := <-listener.Send:
			var frame struct {
				Type     string `json:"type"`
				ID       uint   `json:"id"`
				SenderID uint   `json:"sender_id"`
				Content  string `json:"content"`
			}
			require.NoError(t, json.Unmarshal(raw, &frame))
			assert.Equal(t, "message", frame.Type)
			assert.Equal(t, sent.ID, frame.ID)
			assert.Equal(t, alice.ID, frame.SenderID)
			assert.Equal(t, "hello over rest", frame.Content)
		case <-time.After(time.Second):
			t.Fatal("message never reached the live room")
		}
	})

	t.Run("NoRoomIsANoop", func(t *testing.T) {
		carol := seedUser(t, db, "carol@test.local", "Carol")
		other, _, err := svc.StartConversation(alice.ID, carol.ID, nil)
		require.NoError(t, err)
		_, err = svc.SendMessage(other.ID, alice.ID, "nobody listening", "")
		require.NoError(t, err)
	})
}

func TestListConversationsDegradedRow(t *testing.T) {
	db := newTestDB(t)
	svc := newChatServiceForTest(t, db)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	conv, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	seedMessage(t, db, conv.ID, bob.ID, "still here", time.Now().Add(-time.Minute))

	// membership pointing at a conversation record that no longer exists
	require.NoError(t, db.Create(&models.UserConversation{
		ConversationID: 9999, UserID: alice.ID, JoinedAt: time.Now(),
	}).Error)

	list, err := svc.ListConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	var good, bad *ConversationSummary
	for i := range list {
		if list[i].Conversation.ID == conv.ID {
			good = &list[i]
		} else {
			bad = &list[i]
		}
	}
	require.NotNil(t, good)
	require.NotNil(t, bad)
	assert.Equal(t, "Bob", good.DisplayName)
	assert.Equal(t, "still here", good.LastMessage)
	assert.Equal(t, uint(9999), bad.Conversation.ID)
	assert.Equal(t, "Unknown", bad.DisplayName)
	assert.Equal(t, "Error loading message", bad.LastMessage)
	assert.Zero(t, bad.UnreadCount)
}

func TestRefreshParticipantNames(t *testing.T) {
	db := newTestDB(t)
	svc := newChatServiceForTest(t, db)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	post := seedPost(t, db, bob.ID, "Luna")
	conv, _, err := svc.StartConversation(alice.ID, bob.ID, &post.ID)
	require.NoError(t, err)
	require.Equal(t, "Bob", conv.OwnerName)
	require.Equal(t, "Alice", conv.AdopterName)
	chatRepo := repository.NewChatRepository(db)

	t.Run("OwnerRename", func(t *testing.T) {
		svc.RefreshParticipantNames(bob.ID, "Happy Paws Shelter")
		stored, err := chatRepo.GetConversation(conv.ID)
		require.NoError(t, err)
		assert.Equal(t, "Happy Paws Shelter", stored.OwnerName)
		assert.Equal(t, "Alice", stored.AdopterName)
	})

	t.Run("AdopterRename", func(t *testing.T) {
		svc.RefreshParticipantNames(alice.ID, "Alice W.")
		stored, err := chatRepo.GetConversation(conv.ID)
		require.NoError(t, err)
		assert.Equal(t, "Happy Paws Shelter", stored.OwnerName)
		assert.Equal(t, "Alice W.", stored.AdopterName)
	})

	t.Run("PostlessThreadUntouched", func(t *testing.T) {
		plain, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
		require.NoError(t, err)
		svc.RefreshParticipantNames(alice.ID, "Alice W.")
		stored, err := chatRepo.GetConversation(plain.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.AdopterName)
	})
}

func TestConversationOnlineFlag(t *testing.T) {
	db := newTestDB(t)
	userHub := ws.NewHub()
	svc := NewChatService(
		repository.NewChatRepository(db),
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewAdoptionRepository(db),
		nil,
		userHub,
		nil,
	)
	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	_, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	list, err := svc.ListConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Online)

	client := &ws.Client{UserID: bob.ID, Send: make(chan []byte, 1)}
	userHub.Register(client)
	list, err = svc.ListConversations(alice.ID)
	require.NoError(t, err)
	assert.True(t, list[0].Online)

	client.Close()
	list, err = svc.ListConversations(alice.ID)
	require.NoError(t, err)
	assert.False(t, list[0].Online)
}
