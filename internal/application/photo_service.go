package application

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	photoDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/photo"
)

// PhotoService uploads pet photos to the configured image store.
type PhotoService struct {
	store  photoDomain.Store
	prefix string
	logger *zap.Logger
}

// NewPhotoService creates a new PhotoService. Object keys start with prefix.
func NewPhotoService(store photoDomain.Store, prefix string, logger *zap.Logger) *PhotoService {
	return &PhotoService{store: store, prefix: prefix, logger: logger}
}

// Upload stores every file and returns their public URLs in input order.
func (s *PhotoService) Upload(ctx context.Context, uploads []*photoDomain.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if err := photoDomain.ValidateBatch(len(uploads)); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, fmt.Errorf("photo uploads are not configured")
	}

	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		key, err := u.Key(s.prefix)
		if err != nil {
			return nil, err
		}
		url, err := s.store.Put(ctx, key, bytes.NewReader(u.Data()), u.Size(), u.ContentType())
		if err != nil {
			s.logger.Error("failed to upload photo",
				zap.String("key", key),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		urls = append(urls, url)
	}

	s.logger.Info("photos uploaded", zap.Int("count", len(urls)))
	return urls, nil
}
