package service

import (
	"fmt"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/ws"
)

type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

// Notify persists the notification and pushes it to the recipient's
// live connections.
func (s *NotificationService) Notify(n *models.Notification) error {
	if err := s.repo.Create(n); err != nil {
		return err
	}
	s.Announce(n)
	return nil
}

// Announce pushes an already-persisted notification over the user hub.
// Used after transactional flows that insert the row themselves.
func (s *NotificationService) Announce(n *models.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.SendToUser(n.UserID, map[string]interface{}{
		"type":         "notification",
		"notification": n,
	})
}

func (s *NotificationService) NotifyAdoptionRequest(ownerID uint, requesterName string, postID, requestID, requesterID uint) error {
	return s.Notify(&models.Notification{
		UserID:      ownerID,
		Type:        domain.NotifTypeAdoptionRequest,
		Message:     requesterName + " wants to adopt your pet",
		Link:        fmt.Sprintf("/posts/%d", postID),
		PostID:      &postID,
		RequestID:   &requestID,
		RequesterID: &requesterID,
	})
}

func (s *NotificationService) NotifyVetDecision(ownerID, postID uint, approved bool) error {
	notifType := domain.NotifTypeVetApproved
	msg := "Your listing was approved by a vet"
	if !approved {
		notifType = domain.NotifTypeVetRejected
		msg = "Your listing was rejected by a vet"
	}
	return s.Notify(&models.Notification{
		UserID:  ownerID,
		Type:    notifType,
		Message: msg,
		Link:    fmt.Sprintf("/posts/%d", postID),
		PostID:  &postID,
	})
}
