package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio_admin/internal/config"
	"portfolio_admin/internal/storage"
)

// FileHandler serves locally stored blobs over HTTP. With an external
// object store the public URLs point at the store directly and these
// routes are simply never hit.
type FileHandler struct {
	buckets map[string]storage.Storage
}

func NewFileHandler(buckets map[string]storage.Storage) *FileHandler {
	return &FileHandler{
		buckets: buckets,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/files/:bucket/*key", h.ServeFile)
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	bucket, ok := h.buckets[c.Param("bucket")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown bucket"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key"})
		return
	}

	reader, err := bucket.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentTypeForKey(key))
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(config.GetConfig().Storage.CacheControlAge))
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

func contentTypeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".webp"):
		return "image/webp"
	case strings.HasSuffix(key, ".svg"):
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
