package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/pkg/cloudinary"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/pkg/storage"

	"github.com/gin-gonic/gin"
)

const maxDocumentSize = 20 << 20 // 20 MiB

type UploadHandler struct {
	cloud cloudinary.Client
	docs  storage.DocumentStore // nil when MinIO is not configured
}

func NewUploadHandler(cloud cloudinary.Client, docs storage.DocumentStore) *UploadHandler {
	return &UploadHandler{cloud: cloud, docs: docs}
}

// friendlyStorageError maps raw storage SDK errors onto messages a user
// can act on; anything unrecognized stays generic.
func friendlyStorageError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "file size") || strings.Contains(msg, "too large") || strings.Contains(msg, "entity too large"):
		return "file is too large"
	case strings.Contains(msg, "invalid image") || strings.Contains(msg, "unsupported") || strings.Contains(msg, "format"):
		return "unsupported file type"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "upload timed out, please try again"
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401"):
		return "storage credentials rejected"
	default:
		return "upload failed"
	}
}

func (h *UploadHandler) uploadImage(c *gin.Context, folder string) {
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	publicID := fmt.Sprintf("u%d_%s", userID, strings.ReplaceAll(uuid.New().String(), "-", "")[:16])

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": friendlyStorageError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnail_url": thumb})
}

func (h *UploadHandler) UploadPostImage(c *gin.Context) {
	h.uploadImage(c, cloudinary.FolderPostImages)
}

func (h *UploadHandler) UploadChatImage(c *gin.Context) {
	h.uploadImage(c, cloudinary.FolderChatImages)
}

func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	h.uploadImage(c, cloudinary.FolderAvatars)
}

// UploadDocument stores verification papers in the private documents
// bucket and returns a time-limited download link.
func (h *UploadHandler) UploadDocument(c *gin.Context) {
	if h.docs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document storage not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > maxDocumentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	ext := filepath.Ext(file.Filename)
	// Shelters upload their verification papers; keep those in their own
	// namespace so an admin review job can list them directly.
	namespace := "documents"
	if middleware.IsShelter(c) {
		namespace = "shelters"
	}
	key := fmt.Sprintf("%s/%d/%s%s", namespace, userID, uuid.New().String(), ext)
	contentType := file.Header.Get("Content-Type")
	if err := h.docs.Put(c.Request.Context(), key, f, file.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": friendlyStorageError(err)})
		return
	}
	url, err := h.docs.PresignGet(c.Request.Context(), key, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": friendlyStorageError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

// DocumentLink re-presigns an existing document key. Only the owner's
// keys resolve; keys are namespaced per user.
func (h *UploadHandler) DocumentLink(c *gin.Context) {
	if h.docs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document storage not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	key := c.Query("key")
	owner := strconv.FormatUint(uint64(userID), 10)
	if key == "" || (!strings.HasPrefix(key, "documents/"+owner+"/") && !strings.HasPrefix(key, "shelters/"+owner+"/")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your document"})
		return
	}
	url, err := h.docs.PresignGet(c.Request.Context(), key, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": friendlyStorageError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
