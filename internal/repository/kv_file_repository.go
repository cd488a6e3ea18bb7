package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/training-crm-api/pkg/storage"
)

// FileKV stores each key as one JSON file in a local directory.
type FileKV struct {
	files *storage.LocalStorage
}

// NewFileKV builds a file-backed store on top of local storage.
func NewFileKV(files *storage.LocalStorage) *FileKV {
	return &FileKV{files: files}
}

func (f *FileKV) Get(ctx context.Context, key string) (string, error) {
	data, err := f.files.Read(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("file get %s: %w", key, err)
	}
	return string(data), nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := f.files.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("file set %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	if err := f.files.Delete(key); err != nil {
		return fmt.Errorf("file delete %s: %w", key, err)
	}
	return nil
}
