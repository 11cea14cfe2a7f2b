package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/storage"
)

// UploadHandler stores ticket attachments and returns their metadata.
type UploadHandler struct {
	uploader storage.Uploader
	maxBytes int64
}

// NewUploadHandler builds an UploadHandler. uploader may be nil when storage
// is not configured.
func NewUploadHandler(uploader storage.Uploader, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes}
}

// Upload accepts a multipart "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are not configured", "status": "internal"})
		return
	}
	if h.maxBytes > 0 {
		// multipart framing needs a little room above the file itself
		limit := h.maxBytes + 1<<20
		if c.Request.ContentLength > limit {
			tooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(c)
			return
		}
		badRequest(c, "file is required")
		return
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		badRequest(c, storage.ErrFileTooLarge.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "could not read file")
		return
	}
	defer file.Close()

	att, err := h.uploader.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrEmptyFile) {
			badRequest(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

func tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": storage.ErrFileTooLarge.Error(), "status": "validation"})
}
