package repository

import (
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"

	"gorm.io/gorm"
)

type AdoptionRepository struct {
	db *gorm.DB
}

func NewAdoptionRepository(db *gorm.DB) *AdoptionRepository {
	return &AdoptionRepository{db: db}
}

func (r *AdoptionRepository) Create(req *models.AdoptionRequest) error {
	return r.db.Create(req).Error
}

func (r *AdoptionRepository) GetByID(id uint) (*models.AdoptionRequest, error) {
	var req models.AdoptionRequest
	if err := r.db.Preload("Post").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AdoptionRepository) ListByRequester(requesterID uint, limit, offset int) ([]models.AdoptionRequest, error) {
	var list []models.AdoptionRequest
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *AdoptionRepository) ListByOwner(ownerID uint, limit, offset int) ([]models.AdoptionRequest, error) {
	var list []models.AdoptionRequest
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// HasPending reports whether the requester already has an open request for the post.
func (r *AdoptionRepository) HasPending(postID, requesterID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.AdoptionRequest{}).
		Where("post_id = ? AND requester_id = ? AND status = ?", postID, requesterID, domain.RequestStatusPending).
		Count(&n).Error
	return n > 0, err
}

// LatestBetween returns the most recent request in either direction
// between two users with the given status, with its post preloaded.
// Used by conversation display-name resolution.
func (r *AdoptionRepository) LatestBetween(userA, userB uint, status string) (*models.AdoptionRequest, error) {
	var req models.AdoptionRequest
	err := r.db.Preload("Post").
		Where("((requester_id = ? AND owner_id = ?) OR (requester_id = ? AND owner_id = ?)) AND status = ?",
			userA, userB, userB, userA, status).
		Order("created_at DESC").First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AdoptionRepository) Update(req *models.AdoptionRequest) error {
	return r.db.Save(req).Error
}
