package database

import (
	"log"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/config"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Post{},
		&models.AdoptionRequest{},
		&models.Notification{},
		&models.Conversation{},
		&models.UserConversation{},
		&models.Message{},
	)
}

// SeedAdmin creates the default admin account if none exists.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	admin := &models.User{
		Email:        "admin@pawpal.local",
		PasswordHash: string(hash),
		DisplayName:  "Admin",
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[database] seed admin failed: %v", err)
		return
	}
	log.Printf("[database] seeded admin user %s (change the password)", admin.Email)
}
