package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc  *service.ChatService
	mergeSvc *service.MergeService
	pageSize int
}

func NewChatHandler(chatSvc *service.ChatService, mergeSvc *service.MergeService, pageSize int) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc, mergeSvc: mergeSvc, pageSize: pageSize}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	summaries, err := h.chatSvc.ListConversations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		UserID uint  `json:"user_id" binding:"required"`
		PostID *uint `json:"post_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conv, created, err := h.chatSvc.StartConversation(userID, req.UserID, req.PostID)
	if err != nil {
		if errors.Is(err, service.ErrSelfChat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start conversation"})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conv)
}

func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	conv, err := h.chatSvc.GetConversation(uint(id), userID)
	if err != nil {
		if errors.Is(err, service.ErrConvNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversation"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	msgs, err := h.chatSvc.ListMessages(uint(id), userID, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrNotMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == "" && req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message needs text or an image"})
		return
	}
	msg, err := h.chatSvc.SendMessage(uint(id), userID, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrNotMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.chatSvc.MarkRead(uint(id), userID); err != nil {
		if errors.Is(err, service.ErrNotMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *ChatHandler) UnreadBadge(c *gin.Context) {
	userID := middleware.GetUserID(c)
	count, err := h.chatSvc.UnreadBadge(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MergeDuplicates lets a user collapse their duplicate conversations on
// demand instead of waiting for the background sweep.
func (h *ChatHandler) MergeDuplicates(c *gin.Context) {
	userID := middleware.GetUserID(c)
	report, err := h.mergeSvc.MergeForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "merge failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}
