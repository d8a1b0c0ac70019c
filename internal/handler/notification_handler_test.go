package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/database"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// asUser injects the authenticated user the way AuthRequired would.
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", domain.RoleUser)
		c.Next()
	}
}

func TestNotificationListFallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlerTestDB(t)
	notifRepo := repository.NewNotificationRepository(db)
	enrichSvc := service.NewEnrichService(
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		repository.NewAdoptionRepository(db),
	)
	h := NewNotificationHandler(notifRepo, enrichSvc)

	owner := &models.User{Email: "owner@test.local", DisplayName: "Owner", Role: domain.RoleUser}
	require.NoError(t, db.Create(owner).Error)
	requester := &models.User{Email: "req@test.local", DisplayName: "Riley", Role: domain.RoleUser}
	require.NoError(t, db.Create(requester).Error)
	post := &models.Post{OwnerID: owner.ID, Name: "Luna", Species: "Dog",
		Status: domain.PostStatusAvailable, VetStatus: domain.VetStatusApproved}
	require.NoError(t, db.Create(post).Error)

	// one fully joinable row, one pointing at a deleted post
	missing := uint(9999)
	require.NoError(t, db.Create(&models.Notification{
		UserID: owner.ID, Type: domain.NotifTypeAdoptionRequest,
		Message: "Riley wants to adopt your pet",
		PostID:  &post.ID, RequesterID: &requester.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		UserID: owner.ID, Type: domain.NotifTypeAdoptionRequest,
		Message: "Someone wants to adopt your pet",
		PostID:  &missing, RequesterID: &missing,
	}).Error)

	r := gin.New()
	r.GET("/notifications", asUser(owner.ID), h.List)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Notifications []struct {
			PetName       string `json:"pet_name"`
			RequesterName string `json:"requester_name"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 2)

	// the degraded row got fallback text, the good row its joins
	pets := []string{body.Notifications[0].PetName, body.Notifications[1].PetName}
	requesters := []string{body.Notifications[0].RequesterName, body.Notifications[1].RequesterName}
	assert.ElementsMatch(t, []string{"Luna", "a pet"}, pets)
	assert.ElementsMatch(t, []string{"Riley", "Someone"}, requesters)
}

func TestNotificationReadAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlerTestDB(t)
	notifRepo := repository.NewNotificationRepository(db)
	enrichSvc := service.NewEnrichService(
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		repository.NewAdoptionRepository(db),
	)
	h := NewNotificationHandler(notifRepo, enrichSvc)

	user := &models.User{Email: "u@test.local", DisplayName: "U", Role: domain.RoleUser}
	require.NoError(t, db.Create(user).Error)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID: user.ID, Type: domain.NotifTypeNewMessage, Message: "ping",
		}).Error)
	}

	r := gin.New()
	grp := r.Group("/", asUser(user.ID))
	grp.GET("/unread-count", h.UnreadCount)
	grp.PUT("/read-all", h.MarkAllRead)
	grp.DELETE("/notifications", h.DeleteAll)

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	w := do(http.MethodGet, "/unread-count")
	assert.Contains(t, w.Body.String(), `"count":3`)

	require.Equal(t, http.StatusOK, do(http.MethodPut, "/read-all").Code)
	w = do(http.MethodGet, "/unread-count")
	assert.Contains(t, w.Body.String(), `"count":0`)

	require.Equal(t, http.StatusOK, do(http.MethodDelete, "/notifications").Code)
	var n int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}
