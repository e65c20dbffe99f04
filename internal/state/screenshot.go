// internal/state/screenshot.go
package state

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/user/eliteos/internal/types"
)

// DataURIPrefix precedes the base64 payload returned by LoadScreenshot. The
// MIME type is generic; content is not sniffed.
const DataURIPrefix = "data:image/*;base64,"

var errIsDirectory = errors.New("is a directory")

// SaveScreenshot writes data to screenshots/<tradeID>_<filename> and returns
// the composite name. An existing file of the same name is overwritten.
func (s *Store) SaveScreenshot(_ context.Context, tradeID, filename string, data []byte) (string, error) {
	folder, err := s.screenshotFolder(OpSaveScreenshot)
	if err != nil {
		return "", err
	}

	name := types.ScreenshotName(tradeID, filename)
	target, err := screenshotPath(OpSaveScreenshot, folder, name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", newError(OpSaveScreenshot, ErrWrite, target, err)
	}
	return name, nil
}

// LoadScreenshot reads screenshots/<filename> and returns it as a data URI.
// Unlike LoadData, a missing file is an error.
func (s *Store) LoadScreenshot(_ context.Context, filename string) (string, error) {
	folder, err := s.screenshotFolder(OpLoadScreenshot)
	if err != nil {
		return "", err
	}

	target, err := screenshotPath(OpLoadScreenshot, folder, filename)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newError(OpLoadScreenshot, ErrNotFound, target, err)
		}
		return "", newError(OpLoadScreenshot, ErrRead, target, err)
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DeleteScreenshot removes screenshots/<filename>. Deleting a name that does
// not exist fails.
func (s *Store) DeleteScreenshot(_ context.Context, filename string) error {
	folder, err := s.screenshotFolder(OpDeleteScreenshot)
	if err != nil {
		return err
	}

	target, err := screenshotPath(OpDeleteScreenshot, folder, filename)
	if err != nil {
		return err
	}

	// os.Remove would also delete an empty directory; only files are removable.
	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(OpDeleteScreenshot, ErrNotFound, target, err)
		}
		return newError(OpDeleteScreenshot, ErrWrite, target, err)
	}
	if info.IsDir() {
		return newError(OpDeleteScreenshot, ErrWrite, target, errIsDirectory)
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(OpDeleteScreenshot, ErrNotFound, target, err)
		}
		return newError(OpDeleteScreenshot, ErrWrite, target, err)
	}
	return nil
}

// ListScreenshots returns the names of the files directly inside the
// screenshots directory, sorted by name. Subdirectories are skipped.
func (s *Store) ListScreenshots(_ context.Context) ([]string, error) {
	folder, err := s.screenshotFolder(OpListScreenshots)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, newError(OpListScreenshots, ErrEnumeration, folder, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if isFile(folder, entry) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ScreenshotStats counts the regular files in the screenshots directory and
// sums their sizes.
func (s *Store) ScreenshotStats(_ context.Context) (types.ScreenshotStats, error) {
	var stats types.ScreenshotStats

	folder, err := s.screenshotFolder(OpScreenshotStats)
	if err != nil {
		return stats, err
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return stats, newError(OpScreenshotStats, ErrEnumeration, folder, err)
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return types.ScreenshotStats{}, newError(OpScreenshotStats, ErrEnumeration, filepath.Join(folder, entry.Name()), err)
		}
		if info.Mode().IsRegular() {
			stats.Count++
			stats.TotalBytes += info.Size()
		}
	}
	return stats, nil
}

// isFile reports whether entry is a regular file, following symlinks.
func isFile(folder string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(folder, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
