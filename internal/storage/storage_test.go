package storage

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
)

func TestLocalStorePutAndDelete(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := NewLocalStoreFs(fs, "http://localhost:8080/uploads/")

	obj, err := store.Put(ctx, "tickets/20250101-0001-1700000000000.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "tickets/20250101-0001-1700000000000.png", obj.Key)
	assert.Equal(t, "http://localhost:8080/uploads/tickets/20250101-0001-1700000000000.png", obj.URL)

	data, err := afero.ReadFile(fs, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, store.Delete(ctx, obj.Key))
	exists, err := afero.Exists(fs, obj.Key)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Delete(ctx, obj.Key))
}

func TestLocalStoreRejectsBadKeys(t *testing.T) {
	store := NewLocalStoreFs(afero.NewMemMapFs(), "/uploads")

	_, err := store.Put(context.Background(), "  ", nil, "image/png")
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = store.Put(context.Background(), "../etc/passwd", nil, "image/png")
	assert.Error(t, err)
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalStoreFs(afero.NewMemMapFs(), "/uploads").Put(ctx, "tickets/a.png", nil, "image/png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "ftp"}, "http://localhost:8080", zap.NewNop())
	assert.Error(t, err)
}

func TestNewS3StoreRequiresEndpoint(t *testing.T) {
	_, err := NewS3Store(config.StorageConfig{Bucket: "manutencao"})
	assert.Error(t, err)

	store, err := NewS3Store(config.StorageConfig{
		Endpoint: "s3.local:9000",
		Bucket:   "manutencao",
		UseSSL:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local:9000/manutencao", store.baseURL)
}
