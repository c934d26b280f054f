package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalStore writes objects below a base directory; the HTTP layer serves
// that directory under the public base URL.
type LocalStore struct {
	fs      afero.Fs
	baseURL string
}

// NewLocalStore roots the store at dir on the host filesystem.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return NewLocalStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir), baseURL), nil
}

// NewLocalStoreFs uses fs as the backing filesystem.
func NewLocalStoreFs(fs afero.Fs, baseURL string) *LocalStore {
	return &LocalStore{fs: fs, baseURL: baseURL}
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	key, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}
	if err := s.fs.MkdirAll(filepath.Dir(key), 0o750); err != nil {
		return Object{}, fmt.Errorf("create object dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, key, data, 0o640); err != nil {
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	return Object{Key: key, URL: publicURL(s.baseURL, key)}, nil
}

// Delete removes key; a missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
