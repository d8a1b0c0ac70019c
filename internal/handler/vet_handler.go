package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// VetHandler is the vet dashboard: the review queue and the health
// sign-off on listings.
type VetHandler struct {
	postRepo *repository.PostRepository
	notifSvc *service.NotificationService
}

func NewVetHandler(postRepo *repository.PostRepository, notifSvc *service.NotificationService) *VetHandler {
	return &VetHandler{postRepo: postRepo, notifSvc: notifSvc}
}

func (h *VetHandler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.postRepo.ListPendingVet(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

func (h *VetHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *VetHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *VetHandler) decide(c *gin.Context, approved bool) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if post.VetStatus != domain.VetStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "listing already reviewed"})
		return
	}
	status := domain.VetStatusApproved
	if !approved {
		status = domain.VetStatusRejected
	}
	if err := h.postRepo.UpdateVetStatus(post.ID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if err := h.notifSvc.NotifyVetDecision(post.OwnerID, post.ID, approved); err != nil {
		log.Printf("[vet] decision notification for post %d failed: %v", post.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"vet_status": status})
}
