package handler

import (
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

func NewAdminHandler(userRepo *repository.UserRepository, postRepo *repository.PostRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, postRepo: postRepo}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.userRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":           u.ID,
			"email":        u.Email,
			"display_name": u.DisplayName,
			"role":         u.Role,
			"is_shelter":   u.IsShelter,
			"is_verified":  u.IsVerified,
			"created_at":   u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// SetRole promotes or demotes a user between USER, VET and ADMIN.
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Role string `json:"role" binding:"required,oneof=USER VET ADMIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user.Role = req.Role
	if err := h.userRepo.Update(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
}

// VerifyShelter flags a shelter account as verified after its papers
// check out.
func (h *AdminHandler) VerifyShelter(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	user, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !user.IsShelter {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a shelter"})
		return
	}
	user.IsVerified = true
	if err := h.userRepo.Update(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "is_verified": true})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	users, err := h.userRepo.CountByRole(domain.RoleUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	vets, _ := h.userRepo.CountByRole(domain.RoleVet)
	available, _ := h.postRepo.CountByStatus(domain.PostStatusAvailable)
	pending, _ := h.postRepo.CountByStatus(domain.PostStatusPending)
	adopted, _ := h.postRepo.CountByStatus(domain.PostStatusAdopted)
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"vets":  vets,
		"posts": gin.H{
			"available": available,
			"pending":   pending,
			"adopted":   adopted,
		},
	})
}
