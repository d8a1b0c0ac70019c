package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrOwnPost          = errors.New("cannot apply to adopt your own pet")
	ErrDuplicateRequest = errors.New("you already have a pending request for this pet")
	ErrPostUnavailable  = errors.New("this pet is no longer available")
	ErrNotOwner         = errors.New("only the post owner can decide this request")
	ErrAlreadyDecided   = errors.New("request already decided")
)

// AdoptionService owns the request lifecycle: pending -> approved or
// rejected, terminal either way. The approve path mutates three rows
// (request, post, notification) in a single transaction.
type AdoptionService struct {
	db           *gorm.DB
	adoptionRepo *repository.AdoptionRepository
	postRepo     *repository.PostRepository
	userRepo     *repository.UserRepository
	notifSvc     *NotificationService
}

func NewAdoptionService(
	db *gorm.DB,
	adoptionRepo *repository.AdoptionRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	notifSvc *NotificationService,
) *AdoptionService {
	return &AdoptionService{
		db:           db,
		adoptionRepo: adoptionRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
		notifSvc:     notifSvc,
	}
}

// Create opens a pending request and notifies the post owner.
func (s *AdoptionService) Create(postID, requesterID uint, answers string) (*models.AdoptionRequest, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID == requesterID {
		return nil, ErrOwnPost
	}
	if post.Status == domain.PostStatusAdopted {
		return nil, ErrPostUnavailable
	}
	dup, err := s.adoptionRepo.HasPending(postID, requesterID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateRequest
	}
	req := &models.AdoptionRequest{
		PostID:      postID,
		RequesterID: requesterID,
		OwnerID:     post.OwnerID,
		Answers:     answers,
		Status:      domain.RequestStatusPending,
	}
	if err := s.adoptionRepo.Create(req); err != nil {
		return nil, err
	}
	requesterName := "Someone"
	if u, err := s.userRepo.GetByID(requesterID); err == nil {
		requesterName = u.Name()
	}
	if err := s.notifSvc.NotifyAdoptionRequest(post.OwnerID, requesterName, postID, req.ID, requesterID); err != nil {
		// The request stands; the owner just doesn't get a bell icon.
		return req, nil
	}
	return req, nil
}

// Approve marks the request approved, sets the post to Adopted and
// notifies the requester — one transaction, so a crash mid-way cannot
// leave an approved request on an Available post.
func (s *AdoptionService) Approve(requestID, actorID uint) (*models.AdoptionRequest, error) {
	req, err := s.adoptionRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	if !req.IsPending() {
		return nil, ErrAlreadyDecided
	}
	now := time.Now()
	notif := &models.Notification{
		UserID:      req.RequesterID,
		Type:        domain.NotifTypeAdoptionApproved,
		Message:     fmt.Sprintf("Your adoption request for %s was approved!", req.Post.Name),
		Link:        fmt.Sprintf("/posts/%d", req.PostID),
		PostID:      &req.PostID,
		RequestID:   &req.ID,
		RequesterID: &req.RequesterID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AdoptionRequest{}).Where("id = ?", req.ID).
			Updates(map[string]interface{}{"status": domain.RequestStatusApproved, "decided_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", req.PostID).
			Update("status", domain.PostStatusAdopted).Error; err != nil {
			return err
		}
		return tx.Create(notif).Error
	})
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatusApproved
	req.DecidedAt = &now
	s.notifSvc.Announce(notif)
	return req, nil
}

// Reject marks the request rejected and notifies the requester; the
// post keeps its status.
func (s *AdoptionService) Reject(requestID, actorID uint) (*models.AdoptionRequest, error) {
	req, err := s.adoptionRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	if !req.IsPending() {
		return nil, ErrAlreadyDecided
	}
	now := time.Now()
	notif := &models.Notification{
		UserID:      req.RequesterID,
		Type:        domain.NotifTypeAdoptionRejected,
		Message:     fmt.Sprintf("Your adoption request for %s was declined.", req.Post.Name),
		Link:        fmt.Sprintf("/posts/%d", req.PostID),
		PostID:      &req.PostID,
		RequestID:   &req.ID,
		RequesterID: &req.RequesterID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AdoptionRequest{}).Where("id = ?", req.ID).
			Updates(map[string]interface{}{"status": domain.RequestStatusRejected, "decided_at": now}).Error; err != nil {
			return err
		}
		return tx.Create(notif).Error
	})
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatusRejected
	req.DecidedAt = &now
	s.notifSvc.Announce(notif)
	return req, nil
}
