package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

const settingCachePrefix = "settings:"

// CachedSettingRepository serves Get from Redis and invalidates on Upsert.
// Cache failures are logged and fall through to the wrapped repository.
type CachedSettingRepository struct {
	next   SettingRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSettingRepository wraps next with a Redis read-through cache.
func NewCachedSettingRepository(next SettingRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSettingRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedSettingRepository{next: next, client: client, ttl: ttl, logger: logger}
}

type cachedSetting struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *CachedSettingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	data, err := r.client.Get(ctx, r.buildKey(key)).Bytes()
	switch {
	case err == nil:
		var cached cachedSetting
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			return &domain.Setting{
				ID:          cached.ID,
				Key:         cached.Key,
				Value:       cached.Value,
				Description: cached.Description,
				UpdatedAt:   cached.UpdatedAt,
			}, nil
		}
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
	}

	setting, err := r.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	r.store(ctx, setting)
	return setting, nil
}

func (r *CachedSettingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	if err := r.next.Upsert(ctx, setting); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.buildKey(setting.Key)).Err(); err != nil {
		r.logger.Warn("settings cache invalidation failed", zap.String("key", setting.Key), zap.Error(err))
	}
	return nil
}

func (r *CachedSettingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	return r.next.List(ctx)
}

func (r *CachedSettingRepository) store(ctx context.Context, setting *domain.Setting) {
	data, err := json.Marshal(cachedSetting{
		ID:          setting.ID,
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		UpdatedAt:   setting.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.buildKey(setting.Key), data, r.ttl).Err(); err != nil {
		r.logger.Warn("settings cache write failed", zap.String("key", setting.Key), zap.Error(err))
	}
}

func (r *CachedSettingRepository) buildKey(key string) string {
	return fmt.Sprintf("%s%s", settingCachePrefix, key)
}
