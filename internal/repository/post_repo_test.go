package repository

import (
	"testing"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/database"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestPostFilters(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewPostRepository(db)
	owner := &models.User{Email: "o@test.local", DisplayName: "O", Role: domain.RoleUser}
	require.NoError(t, db.Create(owner).Error)

	seed := func(name, species, size, status string) *models.Post {
		p := &models.Post{
			OwnerID: owner.ID, Name: name, Species: species, Size: size,
			Status: status, VetStatus: domain.VetStatusApproved,
			Temperament: models.StringList{"calm"},
		}
		require.NoError(t, repo.Create(p))
		return p
	}
	seed("Luna", "Dog", domain.SizeMedium, domain.PostStatusAvailable)
	seed("Rex", "Dog", domain.SizeLarge, domain.PostStatusAdopted)
	seed("Whiskers", "Cat", domain.SizeSmall, domain.PostStatusAvailable)

	t.Run("BySpecies", func(t *testing.T) {
		list, err := repo.List(PostFilter{Species: "Dog"}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("ByStatus", func(t *testing.T) {
		list, err := repo.List(PostFilter{Status: domain.PostStatusAvailable}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("SearchIsCaseInsensitive", func(t *testing.T) {
		list, err := repo.List(PostFilter{Search: "luna"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Luna", list[0].Name)
	})

	t.Run("CombinedFilters", func(t *testing.T) {
		list, err := repo.List(PostFilter{Species: "Dog", Status: domain.PostStatusAvailable}, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Luna", list[0].Name)
	})

	t.Run("TemperamentRoundTrips", func(t *testing.T) {
		list, err := repo.List(PostFilter{Search: "luna"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.StringList{"calm"}, list[0].Temperament)
	})

	t.Run("StatusTransition", func(t *testing.T) {
		list, err := repo.List(PostFilter{Search: "rex"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NoError(t, repo.UpdateStatus(list[0].ID, domain.PostStatusAvailable))
		fresh, err := repo.GetByID(list[0].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PostStatusAvailable, fresh.Status)
	})
}

func TestLatestByOwner(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewPostRepository(db)
	owner := &models.User{Email: "o@test.local", DisplayName: "O", Role: domain.RoleUser}
	require.NoError(t, db.Create(owner).Error)

	first := &models.Post{OwnerID: owner.ID, Name: "First", Species: "Dog",
		Status: domain.PostStatusAvailable, VetStatus: domain.VetStatusApproved}
	require.NoError(t, repo.Create(first))
	second := &models.Post{OwnerID: owner.ID, Name: "Second", Species: "Dog",
		Status: domain.PostStatusAvailable, VetStatus: domain.VetStatusApproved}
	require.NoError(t, repo.Create(second))
	// force a strict ordering regardless of timestamp resolution
	require.NoError(t, db.Model(second).Update("created_at", time.Now().Add(time.Hour)).Error)

	latest, err := repo.LatestByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", latest.Name)
}
