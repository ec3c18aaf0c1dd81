package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps objects on the local filesystem. An object's path is
// fanned out one directory per ID character to keep directories small.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathFromID(id string) string {
	parts := make([]string, 0, len(id))
	for _, r := range id {
		parts = append(parts, string(r))
	}
	return filepath.Join(ls.basePath, filepath.Join(parts...))
}

func (ls *LocalStorage) Save(_ context.Context, id string, data io.Reader) (int64, error) {
	filePath := ls.pathFromID(id)

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return 0, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return io.Copy(file, data)
}

func (ls *LocalStorage) Open(_ context.Context, id string) (io.ReadCloser, error) {
	file, err := os.Open(ls.pathFromID(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalStorage) Delete(_ context.Context, id string) error {
	err := os.Remove(ls.pathFromID(id))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
