package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/interface/middleware"
	"github.com/oksasatya/holocard-api/pkg/response"
)

// multipart framing allowance on top of the file size limit
const formOverhead = 1 << 20

type UploadHandler struct {
	Assets   *application.AssetService
	MaxBytes int64
	Errors   *ErrorResponder
}

func NewUploadHandler(assets *application.AssetService, maxBytes int64, errs *ErrorResponder) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &UploadHandler{Assets: assets, MaxBytes: maxBytes, Errors: errs}
}

// ReplaceCardImage accepts a multipart "image" field and makes it the card image.
func (h *UploadHandler) ReplaceCardImage(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserIDKey)

	data, err := h.readImage(c)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}

	res, err := h.Assets.ReplaceImage(c.Request.Context(), uid, data)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"image_url": res.URL,
		"image_data": gin.H{
			"width":  res.Width,
			"height": res.Height,
			"format": res.Format,
		},
	}, "image uploaded", nil)
}

func (h *UploadHandler) readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+formOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("multipart body: %w", apperr.ErrPayloadTooLarge)
		}
		return nil, apperr.Invalid("image", "is required")
	}
	if fh.Size > h.MaxBytes {
		return nil, fmt.Errorf("image of %d bytes: %w", fh.Size, apperr.ErrPayloadTooLarge)
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return nil, apperr.Invalid("image", "only image files are allowed")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, h.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.MaxBytes {
		return nil, apperr.ErrPayloadTooLarge
	}
	return data, nil
}

func (h *UploadHandler) DeleteCardImage(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserIDKey)
	if err := h.Assets.DeleteImage(c.Request.Context(), uid); err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"deleted": true}, "image deleted", nil)
}
