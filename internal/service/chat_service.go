package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/ws"

	"gorm.io/gorm"
)

var (
	ErrNotMember    = errors.New("not a member of this conversation")
	ErrSelfChat     = errors.New("cannot start a conversation with yourself")
	ErrConvNotFound = errors.New("conversation not found")
)

// ConversationSummary is one row of the conversation list: the
// conversation, the resolved counterpart display name, the last message
// preview and the unread count.
type ConversationSummary struct {
	Conversation  models.Conversation `json:"conversation"`
	DisplayName   string              `json:"display_name"`
	OtherUserID   uint                `json:"other_user_id"`
	Online        bool                `json:"online"`
	LastMessage   string              `json:"last_message"`
	LastSenderID  uint                `json:"last_sender_id"`
	LastMessageAt *time.Time          `json:"last_message_at"`
	UnreadCount   int64               `json:"unread_count"`
}

type ChatService struct {
	chatRepo     *repository.ChatRepository
	userRepo     *repository.UserRepository
	postRepo     *repository.PostRepository
	adoptionRepo *repository.AdoptionRepository
	badge        *BadgeCache // nil disables caching
	userHub      *ws.Hub     // nil in tests
	chatHub      *ws.ChatHub // nil in tests
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	userRepo *repository.UserRepository,
	postRepo *repository.PostRepository,
	adoptionRepo *repository.AdoptionRepository,
	badge *BadgeCache,
	userHub *ws.Hub,
	chatHub *ws.ChatHub,
) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		userRepo:     userRepo,
		postRepo:     postRepo,
		adoptionRepo: adoptionRepo,
		badge:        badge,
		userHub:      userHub,
		chatHub:      chatHub,
	}
}

// StartConversation finds or creates the one-to-one conversation between
// two users for a post context. Creation is find-then-create inside the
// repository transaction; racing creates can still slip through, which
// the merge routine reconciles later.
func (s *ChatService) StartConversation(meID, otherID uint, postID *uint) (*models.Conversation, bool, error) {
	if meID == otherID {
		return nil, false, ErrSelfChat
	}
	if conv, err := s.chatRepo.FindDirect(meID, otherID, postID); err == nil {
		return conv, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	conv := &models.Conversation{PostID: postID}
	if postID != nil {
		if post, err := s.postRepo.GetByID(*postID); err == nil {
			conv.PetName = post.Name
			conv.Title = "About " + post.Name
			owner, adopter := otherID, meID
			if post.OwnerID == meID {
				owner, adopter = meID, otherID
			}
			if u, err := s.userRepo.GetByID(owner); err == nil {
				conv.OwnerName = u.Name()
			}
			if u, err := s.userRepo.GetByID(adopter); err == nil {
				conv.AdopterName = u.Name()
			}
		}
	}
	if err := s.chatRepo.CreateDirect(conv, meID, otherID); err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// ListConversations builds the ordered conversation list for a user.
// A failure on one conversation degrades that row to a placeholder
// instead of blanking the whole list.
func (s *ChatService) ListConversations(userID uint) ([]ConversationSummary, error) {
	memberships, err := s.chatRepo.MembershipsByUser(userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]ConversationSummary, 0, len(memberships))
	for _, m := range memberships {
		summary, err := s.buildSummary(userID, m)
		if err != nil {
			log.Printf("[chat] conversation %d degraded for user %d: %v", m.ConversationID, userID, err)
			summaries = append(summaries, ConversationSummary{
				Conversation: models.Conversation{ID: m.ConversationID},
				DisplayName:  "Unknown",
				LastMessage:  "Error loading message",
			})
			continue
		}
		summaries = append(summaries, summary)
	}
	// Newest activity first; conversations with no messages sort last.
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return summaries, nil
}

func (s *ChatService) buildSummary(userID uint, m models.UserConversation) (ConversationSummary, error) {
	conv, err := s.chatRepo.GetConversation(m.ConversationID)
	if err != nil {
		return ConversationSummary{}, err
	}
	otherID, err := s.counterpart(conv.ID, userID)
	if err != nil {
		return ConversationSummary{}, err
	}
	name := s.resolveDisplayName(conv, otherID)
	summary := ConversationSummary{
		Conversation: *conv,
		DisplayName:  name,
		OtherUserID:  otherID,
	}
	if s.userHub != nil {
		summary.Online = s.userHub.ConnectionCount(otherID) > 0
	}
	if last, err := s.chatRepo.LatestMessage(conv.ID); err == nil {
		preview := last.Content
		if preview == "" && last.ImageURL != "" {
			preview = "Sent a photo"
		}
		summary.LastMessage = preview
		summary.LastSenderID = last.SenderID
		t := last.CreatedAt
		summary.LastMessageAt = &t
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ConversationSummary{}, err
	}
	unread, err := s.chatRepo.CountUnread(conv.ID, userID, m.LastRead())
	if err != nil {
		return ConversationSummary{}, err
	}
	summary.UnreadCount = unread
	return summary, nil
}

func (s *ChatService) counterpart(convID, userID uint) (uint, error) {
	members, err := s.chatRepo.MembershipsByConversation(convID)
	if err != nil {
		return 0, err
	}
	for _, m := range members {
		if m.UserID != userID {
			return m.UserID, nil
		}
	}
	return 0, fmt.Errorf("conversation %d has no counterpart", convID)
}

// resolveDisplayName runs the priority chain: cached pet name, latest
// approved request between the pair, latest pending request, a post
// authored by the counterpart, the counterpart's profile name, then a
// synthesized fallback. Pet-derived names are cached back onto the
// conversation; once cached they are never re-resolved.
func (s *ChatService) resolveDisplayName(conv *models.Conversation, otherID uint) string {
	if conv.PetName != "" {
		return conv.PetName
	}
	if name, ok := s.petNameFromRequests(conv, otherID); ok {
		return name
	}
	if post, err := s.postRepo.LatestByOwner(otherID); err == nil && post.Name != "" {
		s.cachePetName(conv, post.Name)
		return post.Name
	}
	if u, err := s.userRepo.GetByID(otherID); err == nil && u.Name() != "" {
		return u.Name()
	}
	return fmt.Sprintf("User %d", otherID)
}

func (s *ChatService) petNameFromRequests(conv *models.Conversation, otherID uint) (string, bool) {
	me := uint(0)
	// Either side of the pair works for the between-users query; use the
	// counterpart plus any other member.
	members, err := s.chatRepo.MembershipsByConversation(conv.ID)
	if err != nil {
		return "", false
	}
	for _, m := range members {
		if m.UserID != otherID {
			me = m.UserID
			break
		}
	}
	if me == 0 {
		return "", false
	}
	for _, status := range []string{domain.RequestStatusApproved, domain.RequestStatusPending} {
		req, err := s.adoptionRepo.LatestBetween(me, otherID, status)
		if err != nil {
			continue
		}
		if req.Post.Name != "" {
			s.cachePetName(conv, req.Post.Name)
			return req.Post.Name, true
		}
	}
	return "", false
}

// cachePetName is best-effort; a stale name just resolves again next load.
func (s *ChatService) cachePetName(conv *models.Conversation, name string) {
	if err := s.chatRepo.UpdatePetName(conv.ID, name); err != nil {
		log.Printf("[chat] caching pet name for conversation %d failed: %v", conv.ID, err)
		return
	}
	conv.PetName = name
}

// SendMessage appends a message, announces it to the conversation's
// live room and invalidates the recipients' badges. REST and WebSocket
// sends both land here, so a participant with the chat open sees the
// message no matter which path carried it.
func (s *ChatService) SendMessage(convID, senderID uint, content, imageURL string) (*models.Message, error) {
	if _, err := s.chatRepo.Membership(convID, senderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	msg := &models.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		ImageURL:       imageURL,
	}
	if err := s.chatRepo.CreateMessage(msg); err != nil {
		return nil, err
	}
	s.announce(msg)
	s.refreshBadges(convID, senderID)
	return msg, nil
}

// announce pushes a persisted message into the conversation's live room.
func (s *ChatService) announce(msg *models.Message) {
	if s.chatHub == nil {
		return
	}
	room := s.chatHub.GetRoom(msg.ConversationID)
	if room == nil {
		return
	}
	room.Broadcast(nil, map[string]interface{}{
		"type":       "message",
		"id":         msg.ID,
		"sender_id":  msg.SenderID,
		"content":    msg.Content,
		"image_url":  msg.ImageURL,
		"created_at": msg.CreatedAt,
	})
}

// RefreshParticipantNames rewrites the cached owner/adopter names on the
// user's post-bound conversations after a profile rename. Best-effort;
// a conversation that fails keeps its stale name until the next rename.
func (s *ChatService) RefreshParticipantNames(userID uint, name string) {
	memberships, err := s.chatRepo.MembershipsByUser(userID)
	if err != nil {
		log.Printf("[chat] name refresh for user %d failed: %v", userID, err)
		return
	}
	for _, m := range memberships {
		conv, err := s.chatRepo.GetConversation(m.ConversationID)
		if err != nil || conv.PostID == nil {
			continue
		}
		post, err := s.postRepo.GetByID(*conv.PostID)
		if err != nil {
			continue
		}
		adopterName, ownerName := conv.AdopterName, conv.OwnerName
		if post.OwnerID == userID {
			ownerName = name
		} else {
			adopterName = name
		}
		if adopterName == conv.AdopterName && ownerName == conv.OwnerName {
			continue
		}
		if err := s.chatRepo.UpdateParticipantNames(conv.ID, adopterName, ownerName); err != nil {
			log.Printf("[chat] name refresh on conversation %d failed: %v", conv.ID, err)
		}
	}
}

func (s *ChatService) ListMessages(convID, userID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.chatRepo.Membership(convID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return s.chatRepo.ListMessages(convID, limit, offset)
}

// MarkRead flips is_read on the others' messages and advances the
// reader's cursor, then pushes the reader's fresh badge.
func (s *ChatService) MarkRead(convID, readerID uint) error {
	if _, err := s.chatRepo.Membership(convID, readerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return err
	}
	if err := s.chatRepo.MarkMessagesRead(convID, readerID); err != nil {
		return err
	}
	if err := s.chatRepo.AdvanceLastRead(convID, readerID, time.Now()); err != nil {
		return err
	}
	s.badge.Invalidate(context.Background(), readerID)
	s.pushBadge(readerID)
	return nil
}

// UnreadBadge is the total across all conversations of messages newer
// than the user's cursor and not sent by them.
func (s *ChatService) UnreadBadge(userID uint) (int64, error) {
	ctx := context.Background()
	if n, ok := s.badge.Get(ctx, userID); ok {
		return n, nil
	}
	memberships, err := s.chatRepo.MembershipsByUser(userID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, m := range memberships {
		n, err := s.chatRepo.CountUnread(m.ConversationID, userID, m.LastRead())
		if err != nil {
			return 0, err
		}
		total += n
	}
	s.badge.Set(ctx, userID, total)
	return total, nil
}

// refreshBadges invalidates and re-pushes the badge of everyone in the
// conversation except the sender.
func (s *ChatService) refreshBadges(convID, senderID uint) {
	members, err := s.chatRepo.MembershipsByConversation(convID)
	if err != nil {
		log.Printf("[chat] badge refresh for conversation %d failed: %v", convID, err)
		return
	}
	ctx := context.Background()
	for _, m := range members {
		if m.UserID == senderID {
			continue
		}
		s.badge.Invalidate(ctx, m.UserID)
		s.pushBadge(m.UserID)
	}
}

func (s *ChatService) pushBadge(userID uint) {
	if s.userHub == nil {
		return
	}
	count, err := s.UnreadBadge(userID)
	if err != nil {
		log.Printf("[chat] badge push for user %d failed: %v", userID, err)
		return
	}
	s.userHub.SendToUser(userID, map[string]interface{}{"type": "badge", "count": count})
}

// GetConversation returns the conversation if the user is a member.
func (s *ChatService) GetConversation(convID, userID uint) (*models.Conversation, error) {
	if _, err := s.chatRepo.Membership(convID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConvNotFound
		}
		return nil, err
	}
	return s.chatRepo.GetConversation(convID)
}
