package service

import (
	"errors"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
)

// PetInfo is the slice of a post a notification card renders.
type PetInfo struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Breed    string `json:"breed"`
	Age      int    `json:"age"`
}

// NotificationEnrichment carries a notification row plus its
// best-effort joins. Each join is a Field; the handler decides the
// fallback text for failed ones.
type NotificationEnrichment struct {
	Notification models.Notification
	Pet          Field[PetInfo]
	Requester    Field[string]
	Status       Field[string]
}

var errNotEnrichable = errors.New("notification type carries no adoption context")

type EnrichService struct {
	postRepo     *repository.PostRepository
	userRepo     *repository.UserRepository
	adoptionRepo *repository.AdoptionRepository
}

func NewEnrichService(postRepo *repository.PostRepository, userRepo *repository.UserRepository, adoptionRepo *repository.AdoptionRepository) *EnrichService {
	return &EnrichService{postRepo: postRepo, userRepo: userRepo, adoptionRepo: adoptionRepo}
}

func adoptionTyped(t string) bool {
	switch t {
	case domain.NotifTypeAdoptionRequest, domain.NotifTypeAdoptionApproved, domain.NotifTypeAdoptionRejected:
		return true
	}
	return false
}

// Enrich joins pet, requester and current request status onto one row.
// Every join is independent; a failure lands in that Field's Err and
// never bubbles.
func (s *EnrichService) Enrich(n models.Notification) NotificationEnrichment {
	e := NotificationEnrichment{Notification: n}
	if !adoptionTyped(n.Type) {
		e.Pet = Failed[PetInfo](errNotEnrichable)
		e.Requester = Failed[string](errNotEnrichable)
		e.Status = Failed[string](errNotEnrichable)
		return e
	}
	if n.PostID != nil {
		if post, err := s.postRepo.GetByID(*n.PostID); err != nil {
			e.Pet = Failed[PetInfo](err)
		} else {
			e.Pet = Ok(PetInfo{Name: post.Name, ImageURL: post.ImageURL, Breed: post.Breed, Age: post.Age})
		}
	} else {
		e.Pet = Failed[PetInfo](errNotEnrichable)
	}
	if n.RequesterID != nil {
		if u, err := s.userRepo.GetByID(*n.RequesterID); err != nil {
			e.Requester = Failed[string](err)
		} else {
			e.Requester = Ok(u.Name())
		}
	} else {
		e.Requester = Failed[string](errNotEnrichable)
	}
	if n.RequestID != nil {
		if req, err := s.adoptionRepo.GetByID(*n.RequestID); err != nil {
			e.Status = Failed[string](err)
		} else {
			e.Status = Ok(req.Status)
		}
	} else {
		e.Status = Failed[string](errNotEnrichable)
	}
	return e
}

// EnrichAll enriches row by row; one bad row degrades only itself.
func (s *EnrichService) EnrichAll(rows []models.Notification) []NotificationEnrichment {
	out := make([]NotificationEnrichment, 0, len(rows))
	for _, n := range rows {
		out = append(out, s.Enrich(n))
	}
	return out
}
