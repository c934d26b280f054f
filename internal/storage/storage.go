// Package storage persists ticket photos behind a small object-store API.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
)

// ErrEmptyKey is returned when an object key is blank.
var ErrEmptyKey = errors.New("object key is empty")

// Object describes a stored blob.
type Object struct {
	Key string
	URL string
}

// ObjectStore puts and removes blobs by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// LocalURLPrefix is the HTTP path the local store's directory is served under.
const LocalURLPrefix = "/uploads"

// New selects the driver named in cfg. appURL is the service's public
// address, used for local objects when no public base URL is configured.
func New(cfg config.StorageConfig, appURL string, logger *zap.Logger) (ObjectStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		baseURL := cfg.PublicBaseURL
		if baseURL == "" {
			baseURL = strings.TrimRight(appURL, "/") + LocalURLPrefix
		}
		logger.Info("using local photo storage", zap.String("dir", cfg.LocalDir))
		return NewLocalStore(cfg.LocalDir, baseURL)
	case "s3", "minio":
		logger.Info("using s3 photo storage", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return key, nil
}
