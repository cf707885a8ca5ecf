package storage

import (
	"context"
	"fmt"

	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the storage selected by storage.driver. The S3 bucket is created when missing.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (localisationapp.DocumentStorage, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryDocumentStorage(), nil
	case "s3":
		s, err := NewS3DocumentStorage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
