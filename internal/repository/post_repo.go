package repository

import (
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows List; zero values mean "no filter".
type PostFilter struct {
	Species     string
	Size        string
	Status      string
	VetStatus   string
	CommunityID uint
	OwnerID     uint
	Search      string // matches name or breed
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var p models.Post
	if err := r.db.Preload("Community").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) List(f PostFilter, limit, offset int) ([]models.Post, error) {
	q := r.db.Model(&models.Post{})
	if f.Species != "" {
		q = q.Where("species = ?", f.Species)
	}
	if f.Size != "" {
		q = q.Where("size = ?", f.Size)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.VetStatus != "" {
		q = q.Where("vet_status = ?", f.VetStatus)
	}
	if f.CommunityID != 0 {
		q = q.Where("community_id = ?", f.CommunityID)
	}
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(breed) LIKE LOWER(?)", like, like)
	}
	var list []models.Post
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PostRepository) Update(p *models.Post) error {
	return r.db.Save(p).Error
}

func (r *PostRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostRepository) UpdateVetStatus(id uint, vetStatus string) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Update("vet_status", vetStatus).Error
}

// LatestByOwner returns the owner's most recent listing; used as a late
// step of conversation display-name resolution.
func (r *PostRepository) LatestByOwner(ownerID uint) (*models.Post, error) {
	var p models.Post
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) ListPendingVet(limit, offset int) ([]models.Post, error) {
	var list []models.Post
	err := r.db.Where("vet_status = ?", domain.VetStatusPending).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Post{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
