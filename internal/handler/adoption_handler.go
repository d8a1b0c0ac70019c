package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdoptionHandler struct {
	adoptionSvc  *service.AdoptionService
	adoptionRepo *repository.AdoptionRepository
}

func NewAdoptionHandler(adoptionSvc *service.AdoptionService, adoptionRepo *repository.AdoptionRepository) *AdoptionHandler {
	return &AdoptionHandler{adoptionSvc: adoptionSvc, adoptionRepo: adoptionRepo}
}

func (h *AdoptionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		PostID  uint   `json:"post_id" binding:"required"`
		Answers string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.adoptionSvc.Create(req.PostID, userID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrOwnPost), errors.Is(err, service.ErrPostUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDuplicateRequest):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create request"})
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns one request; only the requester and the post owner may see it.
func (h *AdoptionHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	req, err := h.adoptionRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if req.RequesterID != userID && req.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your request"})
		return
	}
	c.JSON(http.StatusOK, req)
}

// Mine lists the caller's outgoing requests.
func (h *AdoptionHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.adoptionRepo.ListByRequester(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

// Incoming lists requests against the caller's posts.
func (h *AdoptionHandler) Incoming(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.adoptionRepo.ListByOwner(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

func (h *AdoptionHandler) Approve(c *gin.Context) {
	h.decide(c, h.adoptionSvc.Approve)
}

func (h *AdoptionHandler) Reject(c *gin.Context) {
	h.decide(c, h.adoptionSvc.Reject)
}

func (h *AdoptionHandler) decide(c *gin.Context, fn func(requestID, actorID uint) (*models.AdoptionRequest, error)) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	req, err := fn(uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update request"})
		}
		return
	}
	c.JSON(http.StatusOK, req)
}
