package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
)

// ObjectStore is the blob storage holding card images.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	CleanupStore
}

type UploadResult struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// AssetService couples card images in object storage to the card row.
type AssetService struct {
	Cards  *CardService
	Store  ObjectStore
	Reaper Reaper
	Logger logrus.FieldLogger
}

func NewAssetService(cards *CardService, store ObjectStore, reaper Reaper, logger logrus.FieldLogger) *AssetService {
	return &AssetService{Cards: cards, Store: store, Reaper: reaper, Logger: logger}
}

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// ReplaceImage uploads data as the user's card image, points the card at it
// (creating the card if needed) and then reaps the previous image.
//
// The upload finishes before the row is written, so a stored URL always
// names a complete object. If the row write fails the new object is left
// orphaned. Both steps run detached from request cancellation.
func (s *AssetService) ReplaceImage(ctx context.Context, userID string, data []byte) (*UploadResult, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Invalid("image", "must be a PNG, JPEG, GIF or WebP image")
	}
	ext, ok := extensions[format]
	if !ok {
		return nil, apperr.Invalid("image", "unsupported image format")
	}

	ctx = context.WithoutCancel(ctx)

	var oldURL string
	current, err := s.Cards.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if current.HasImage() {
			oldURL = *current.ImageURL
		}
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return nil, err
	}

	key := fmt.Sprintf("cards/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.Store.Upload(ctx, key, "image/"+format, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("upload card image: %w: %w", apperr.ErrUpstream, err)
	}

	if _, err := s.Cards.Upsert(ctx, userID, CardFields{ImageURL: &url}); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("card image uploaded but card write failed")
		}
		return nil, err
	}

	if oldURL != "" && oldURL != url {
		s.Reaper.Reap(oldURL)
	}

	return &UploadResult{URL: url, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// DeleteImage clears the card image and reaps the object afterwards.
func (s *AssetService) DeleteImage(ctx context.Context, userID string) error {
	ctx = context.WithoutCancel(ctx)

	current, err := s.Cards.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !current.HasImage() {
		return apperr.ErrNoImage
	}
	oldURL := *current.ImageURL

	none := ""
	if _, err := s.Cards.Upsert(ctx, userID, CardFields{ImageURL: &none}); err != nil {
		return err
	}
	s.Reaper.Reap(oldURL)
	return nil
}
