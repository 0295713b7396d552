// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/upload"
	"gorm.io/gorm"
)

// UploadHandler handles asset upload endpoints
type UploadHandler struct {
	uploads *upload.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		uploads: upload.NewService(db, cfg),
	}
}

// UploadFile handles POST /admin/uploads
func (h *UploadHandler) UploadFile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	f, err := h.uploads.StoreFile(header, c.PostForm("alt_text"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"data":    f,
	})
}

// ListFiles handles GET /admin/uploads
func (h *UploadHandler) ListFiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	files, total, err := h.uploads.ListFiles(upload.Kind(c.Query("kind")), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"files": files,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// DeleteFile handles DELETE /admin/uploads/:id
func (h *UploadHandler) DeleteFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uploads.DeleteFile(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
