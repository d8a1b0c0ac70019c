package repository

import (
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

func (r *CommunityRepository) Create(c *models.Community) error {
	return r.db.Create(c).Error
}

func (r *CommunityRepository) GetByID(id uint) (*models.Community, error) {
	var c models.Community
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommunityRepository) List(limit, offset int) ([]models.Community, error) {
	var list []models.Community
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
