package handler

import (
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postRepo      *repository.PostRepository
	communityRepo *repository.CommunityRepository
}

func NewPostHandler(postRepo *repository.PostRepository, communityRepo *repository.CommunityRepository) *PostHandler {
	return &PostHandler{postRepo: postRepo, communityRepo: communityRepo}
}

type CreatePostRequest struct {
	Name             string   `json:"name" binding:"required,max=128"`
	Description      string   `json:"description"`
	Species          string   `json:"species" binding:"required,max=64"`
	Breed            string   `json:"breed" binding:"max=128"`
	Age              int      `json:"age" binding:"min=0"`
	Size             string   `json:"size" binding:"omitempty,oneof=Small Medium Large"`
	Temperament      []string `json:"temperament"`
	Vaccinated       bool     `json:"vaccinated"`
	HealthNotes      string   `json:"health_notes"`
	Location         string   `json:"location"`
	ImageURL         string   `json:"image_url"`
	AdditionalImages []string `json:"additional_images"`
	CommunityID      *uint    `json:"community_id"`
}

func (h *PostHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CommunityID != nil {
		if _, err := h.communityRepo.GetByID(*req.CommunityID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "community not found"})
			return
		}
	}
	post := &models.Post{
		OwnerID:          userID,
		Name:             req.Name,
		Description:      req.Description,
		Species:          req.Species,
		Breed:            req.Breed,
		Age:              req.Age,
		Size:             req.Size,
		Temperament:      models.StringList(req.Temperament),
		Vaccinated:       req.Vaccinated,
		HealthNotes:      req.HealthNotes,
		Location:         req.Location,
		ImageURL:         req.ImageURL,
		AdditionalImages: models.StringList(req.AdditionalImages),
		Status:           domain.PostStatusAvailable,
		VetStatus:        domain.VetStatusPending,
		CommunityID:      req.CommunityID,
	}
	if err := h.postRepo.Create(post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	communityID, _ := strconv.ParseUint(c.Query("community_id"), 10, 64)
	ownerID, _ := strconv.ParseUint(c.Query("owner_id"), 10, 64)
	f := repository.PostFilter{
		Species:     c.Query("species"),
		Size:        c.Query("size"),
		Status:      c.Query("status"),
		CommunityID: uint(communityID),
		OwnerID:     uint(ownerID),
		Search:      c.Query("q"),
	}
	list, err := h.postRepo.List(f, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

func (h *PostHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if post.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your post"})
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post.Name = req.Name
	post.Description = req.Description
	post.Species = req.Species
	post.Breed = req.Breed
	post.Age = req.Age
	post.Size = req.Size
	post.Temperament = models.StringList(req.Temperament)
	post.Vaccinated = req.Vaccinated
	post.HealthNotes = req.HealthNotes
	post.Location = req.Location
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.AdditionalImages != nil {
		post.AdditionalImages = models.StringList(req.AdditionalImages)
	}
	post.CommunityID = req.CommunityID
	if err := h.postRepo.Update(post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdateStatus moves a listing between Available, Pending and Adopted.
// Listings are retired by status, never deleted.
func (h *PostHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Status string `json:"status" binding:"required,oneof=Available Pending Adopted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if post.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your post"})
		return
	}
	if err := h.postRepo.UpdateStatus(post.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
