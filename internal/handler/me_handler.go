package handler

import (
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
	chatSvc  *service.ChatService
}

func NewMeHandler(userRepo *repository.UserRepository, chatSvc *service.ChatService) *MeHandler {
	return &MeHandler{userRepo: userRepo, chatSvc: chatSvc}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type UpdateProfileRequest struct {
	DisplayName     *string  `json:"display_name"`
	Bio             *string  `json:"bio"`
	Location        *string  `json:"location"`
	AvatarURL       *string  `json:"avatar_url"`
	IsShelter       *bool    `json:"is_shelter"`
	AdoptionHistory []string `json:"adoption_history"`
	Favorites       []string `json:"favorites"`
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	renamed := false
	if req.DisplayName != nil && *req.DisplayName != u.DisplayName {
		u.DisplayName = *req.DisplayName
		renamed = true
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if req.IsShelter != nil {
		u.IsShelter = *req.IsShelter
	}
	if req.AdoptionHistory != nil {
		u.AdoptionHistory = models.StringList(req.AdoptionHistory)
	}
	if req.Favorites != nil {
		u.Favorites = models.StringList(req.Favorites)
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if renamed {
		h.chatSvc.RefreshParticipantNames(userID, u.Name())
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// GetUser is the public profile view.
func (h *MeHandler) GetUser(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	u, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           u.ID,
			"display_name": u.Name(),
			"avatar_url":   u.AvatarURL,
			"bio":          u.Bio,
			"location":     u.Location,
			"is_shelter":   u.IsShelter,
			"is_verified":  u.IsVerified,
		},
	})
}
