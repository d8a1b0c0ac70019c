package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/ws"
)

// MergeService collapses duplicate conversations — multiple rows for the
// same (user pair, post) left behind by racing create calls. It owns the
// reconciliation: a background sweeper runs on an interval and a manual
// trigger exists for users staring at duplicates right now.
type MergeService struct {
	chatRepo *repository.ChatRepository
	chatHub  *ws.ChatHub // nil outside the server process
}

func NewMergeService(chatRepo *repository.ChatRepository, chatHub *ws.ChatHub) *MergeService {
	return &MergeService{chatRepo: chatRepo, chatHub: chatHub}
}

// MergeReport says what a merge run did. RedirectedTo maps each removed
// conversation to its keeper so an open chat view can follow the merge.
type MergeReport struct {
	Groups       int           `json:"groups"`
	Removed      int           `json:"removed"`
	RedirectedTo map[uint]uint `json:"redirected_to"`
}

type pairPostKey struct {
	low, high uint
	postID    uint
}

// MergeForUser reconciles one user's conversations.
func (s *MergeService) MergeForUser(userID uint) (MergeReport, error) {
	memberships, err := s.chatRepo.MembershipsByUser(userID)
	if err != nil {
		return MergeReport{}, err
	}
	var convs []models.Conversation
	for _, m := range memberships {
		conv, err := s.chatRepo.GetConversation(m.ConversationID)
		if err != nil {
			log.Printf("[merge] skipping conversation %d: %v", m.ConversationID, err)
			continue
		}
		convs = append(convs, *conv)
	}
	return s.mergeSet(convs), nil
}

// MergeAll reconciles every post-bound conversation; the sweeper's path.
func (s *MergeService) MergeAll() (MergeReport, error) {
	convs, err := s.chatRepo.ListWithPost()
	if err != nil {
		return MergeReport{}, err
	}
	return s.mergeSet(convs), nil
}

// mergeSet groups conversations by (participant pair, post), keeps the
// earliest of each group and folds the rest into it. A failing group is
// logged and skipped; the remaining groups still merge. A partial
// failure can orphan membership rows — accepted, the next run retries.
func (s *MergeService) mergeSet(convs []models.Conversation) MergeReport {
	report := MergeReport{RedirectedTo: make(map[uint]uint)}
	groups := make(map[pairPostKey][]models.Conversation)
	for _, conv := range convs {
		if conv.IsGroup || conv.PostID == nil {
			continue
		}
		key, ok := s.groupKey(conv)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], conv)
	}
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		report.Groups++
		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].ID < group[j].ID
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		keeper := group[0]
		for _, loser := range group[1:] {
			if err := s.fold(loser.ID, keeper.ID); err != nil {
				log.Printf("[merge] group for conversation %d aborted: %v", keeper.ID, err)
				break
			}
			report.Removed++
			report.RedirectedTo[loser.ID] = keeper.ID
		}
	}
	return report
}

func (s *MergeService) groupKey(conv models.Conversation) (pairPostKey, bool) {
	members, err := s.chatRepo.MembershipsByConversation(conv.ID)
	if err != nil || len(members) != 2 {
		return pairPostKey{}, false
	}
	a, b := members[0].UserID, members[1].UserID
	if a > b {
		a, b = b, a
	}
	return pairPostKey{low: a, high: b, postID: *conv.PostID}, true
}

// fold moves the loser's messages to the keeper, then removes the
// loser's memberships and the loser itself.
func (s *MergeService) fold(loserID, keeperID uint) error {
	if err := s.chatRepo.ReassignMessages(loserID, keeperID); err != nil {
		return err
	}
	if err := s.chatRepo.DeleteMemberships(loserID); err != nil {
		return err
	}
	if err := s.chatRepo.DeleteConversation(loserID); err != nil {
		return err
	}
	if s.chatHub != nil {
		s.chatHub.RemoveRoom(loserID)
	}
	return nil
}

// Run is the sweeper loop; it merges on start and then on every tick
// until the context is cancelled.
func (s *MergeService) Run(ctx context.Context, interval time.Duration) {
	s.sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MergeService) sweep() {
	report, err := s.MergeAll()
	if err != nil {
		log.Printf("[merge] sweep failed: %v", err)
		return
	}
	if report.Removed > 0 {
		log.Printf("[merge] sweep collapsed %d duplicate conversation(s) across %d group(s)", report.Removed, report.Groups)
	}
}
