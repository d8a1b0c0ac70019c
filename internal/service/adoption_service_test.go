package service

import (
	"testing"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdoptionServiceForTest(t *testing.T, db *gorm.DB) *AdoptionService {
	t.Helper()
	notifRepo := repository.NewNotificationRepository(db)
	return NewAdoptionService(
		db,
		repository.NewAdoptionRepository(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		NewNotificationService(notifRepo, nil),
	)
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint, notifType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, notifType).Count(&n).Error)
	return n
}

func TestCreateAdoptionRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newAdoptionServiceForTest(t, db)
	owner := seedUser(t, db, "owner@test.local", "Owner")
	adopter := seedUser(t, db, "adopter@test.local", "Adopter")
	post := seedPost(t, db, owner.ID, "Luna")

	t.Run("OwnPostRejected", func(t *testing.T) {
		_, err := svc.Create(post.ID, owner.ID, "")
		assert.ErrorIs(t, err, ErrOwnPost)
	})

	t.Run("HappyPathNotifiesOwner", func(t *testing.T) {
		req, err := svc.Create(post.ID, adopter.ID, "I have a garden")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, req.Status)
		assert.Equal(t, owner.ID, req.OwnerID)
		assert.Equal(t, int64(1), countNotifications(t, db, owner.ID, domain.NotifTypeAdoptionRequest))
	})

	t.Run("DuplicatePendingRejected", func(t *testing.T) {
		_, err := svc.Create(post.ID, adopter.ID, "again")
		assert.ErrorIs(t, err, ErrDuplicateRequest)
	})

	t.Run("AdoptedPostRejected", func(t *testing.T) {
		gone := seedPost(t, db, owner.ID, "Rex")
		require.NoError(t, db.Model(gone).Update("status", domain.PostStatusAdopted).Error)
		_, err := svc.Create(gone.ID, adopter.ID, "")
		assert.ErrorIs(t, err, ErrPostUnavailable)
	})
}

func TestApproveRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newAdoptionServiceForTest(t, db)
	owner := seedUser(t, db, "owner@test.local", "Owner")
	adopter := seedUser(t, db, "adopter@test.local", "Adopter")
	post := seedPost(t, db, owner.ID, "Luna")
	req, err := svc.Create(post.ID, adopter.ID, "")
	require.NoError(t, err)

	t.Run("OnlyOwnerCanDecide", func(t *testing.T) {
		_, err := svc.Approve(req.ID, adopter.ID)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("ApproveCascades", func(t *testing.T) {
		decided, err := svc.Approve(req.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusApproved, decided.Status)
		require.NotNil(t, decided.DecidedAt)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, domain.PostStatusAdopted, stored.Status)
		assert.Equal(t, int64(1), countNotifications(t, db, adopter.ID, domain.NotifTypeAdoptionApproved))
	})

	t.Run("DecisionIsTerminal", func(t *testing.T) {
		_, err := svc.Approve(req.ID, owner.ID)
		assert.ErrorIs(t, err, ErrAlreadyDecided)
		_, err = svc.Reject(req.ID, owner.ID)
		assert.ErrorIs(t, err, ErrAlreadyDecided)
		// no second notification was written
		assert.Equal(t, int64(1), countNotifications(t, db, adopter.ID, domain.NotifTypeAdoptionApproved))
	})
}

func TestRejectRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newAdoptionServiceForTest(t, db)
	owner := seedUser(t, db, "owner@test.local", "Owner")
	adopter := seedUser(t, db, "adopter@test.local", "Adopter")
	post := seedPost(t, db, owner.ID, "Luna")
	req, err := svc.Create(post.ID, adopter.ID, "")
	require.NoError(t, err)

	decided, err := svc.Reject(req.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusRejected, decided.Status)

	// the post stays available
	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, domain.PostStatusAvailable, stored.Status)
	assert.Equal(t, int64(1), countNotifications(t, db, adopter.ID, domain.NotifTypeAdoptionRejected))

	// a rejected adopter may apply again
	_, err = svc.Create(post.ID, adopter.ID, "second try")
	assert.NoError(t, err)
}
