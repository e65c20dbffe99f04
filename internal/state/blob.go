// internal/state/blob.go
package state

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"syscall"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// SaveData writes content as the full contents of dataDir/path, creating or
// truncating the file. Only the data directory itself is created; missing
// intermediate directories of a nested path make the write fail.
func (s *Store) SaveData(_ context.Context, path, content string) error {
	dir, err := s.dataDir(OpSaveData)
	if err != nil {
		return err
	}
	if err := ensureDir(OpSaveData, dir); err != nil {
		return err
	}

	target, err := blobPath(OpSaveData, dir, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return newError(OpSaveData, ErrWrite, target, err)
	}
	return nil
}

// LoadData returns the text stored at dataDir/path. A file that does not
// exist loads as the empty string.
func (s *Store) LoadData(_ context.Context, path string) (string, error) {
	dir, err := s.dataDir(OpLoadData)
	if err != nil {
		return "", err
	}

	target, err := blobPath(OpLoadData, dir, path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		// A parent that is a regular file means the path cannot exist.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return "", nil
		}
		return "", newError(OpLoadData, ErrRead, target, err)
	}
	if !utf8.Valid(data) {
		return "", newError(OpLoadData, ErrRead, target, errInvalidUTF8)
	}
	return string(data), nil
}
