package handler

import (
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/models"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifRepo *repository.NotificationRepository
	enrichSvc *service.EnrichService
}

func NewNotificationHandler(notifRepo *repository.NotificationRepository, enrichSvc *service.EnrichService) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo, enrichSvc: enrichSvc}
}

// notificationView is the feed row shape: the stored notification plus
// the joined context, with fallback text already applied for joins
// that failed.
type notificationView struct {
	models.Notification
	PetName       string `json:"pet_name,omitempty"`
	PetImageURL   string `json:"pet_image_url,omitempty"`
	PetBreed      string `json:"pet_breed,omitempty"`
	PetAge        int    `json:"pet_age,omitempty"`
	RequesterName string `json:"requester_name,omitempty"`
	RequestStatus string `json:"request_status,omitempty"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	rows, err := h.notifRepo.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load notifications"})
		return
	}
	enriched := h.enrichSvc.EnrichAll(rows)
	out := make([]notificationView, 0, len(enriched))
	for _, e := range enriched {
		view := notificationView{Notification: e.Notification}
		switch e.Notification.Type {
		case domain.NotifTypeAdoptionRequest, domain.NotifTypeAdoptionApproved, domain.NotifTypeAdoptionRejected:
			pet := e.Pet.Or(service.PetInfo{Name: "a pet"})
			view.PetName = pet.Name
			view.PetImageURL = pet.ImageURL
			view.PetBreed = pet.Breed
			view.PetAge = pet.Age
			view.RequesterName = e.Requester.Or("Someone")
			view.RequestStatus = e.Status.Or("")
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.notifRepo.MarkRead(uint(id), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notifRepo.MarkAllRead(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all marked read"})
}

func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notifRepo.DeleteAll(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notifications cleared"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	n, err := h.notifRepo.CountUnread(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
