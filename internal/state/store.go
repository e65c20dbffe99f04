// internal/state/store.go
package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/eliteos/internal/types"
)

// Command names, used as the Op of every returned Error.
const (
	OpEnsureDataFolder = "ensure_data_folder"
	OpSaveData         = "save_data"
	OpLoadData         = "load_data"
	OpSaveScreenshot   = "save_screenshot"
	OpLoadScreenshot   = "load_screenshot"
	OpDeleteScreenshot = "delete_screenshot"
	OpListScreenshots  = "list_screenshots"
	OpScreenshotStats  = "screenshot_stats"
	OpExportData       = "export_data"
	OpImportData       = "import_data"
)

// ScreenshotsDir is the subdirectory of the data directory holding screenshots.
const ScreenshotsDir = "screenshots"

// Store is the local persistence facade. Apart from the directory provider it
// holds nothing between calls: each operation resolves the data directory,
// creates what it needs and touches the filesystem directly.
type Store struct {
	dirs types.DataDirProvider
}

// NewStore creates a Store writing beneath the directory resolved by dirs.
func NewStore(dirs types.DataDirProvider) *Store {
	return &Store{dirs: dirs}
}

// EnsureDataFolder returns the absolute data directory, creating it and any
// missing ancestors.
func (s *Store) EnsureDataFolder(_ context.Context) (string, error) {
	dir, err := s.dataDir(OpEnsureDataFolder)
	if err != nil {
		return "", err
	}
	if err := ensureDir(OpEnsureDataFolder, dir); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Store) dataDir(op string) (string, error) {
	dir, err := s.dirs.AppDataDir()
	if err != nil {
		return "", newError(op, ErrDirectoryResolution, "", err)
	}
	return dir, nil
}

// screenshotFolder resolves the screenshots directory and creates it if absent.
func (s *Store) screenshotFolder(op string) (string, error) {
	dir, err := s.dataDir(op)
	if err != nil {
		return "", err
	}
	folder := filepath.Join(dir, ScreenshotsDir)
	if err := ensureDir(op, folder); err != nil {
		return "", err
	}
	return folder, nil
}

func ensureDir(op, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newError(op, ErrDirectoryCreation, dir, err)
	}
	return nil
}

// blobPath joins a caller-supplied relative path onto dir, rejecting paths
// that are absolute or climb out of dir.
func blobPath(op, dir, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", newError(op, ErrInvalidPath, rel, nil)
	}
	full := filepath.Join(dir, rel)
	if !strings.HasPrefix(full, filepath.Clean(dir)+string(filepath.Separator)) {
		return "", newError(op, ErrInvalidPath, rel, nil)
	}
	return full, nil
}

// screenshotPath joins a screenshot name onto the screenshots folder. Names
// must be a single path element.
func screenshotPath(op, folder, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", newError(op, ErrInvalidPath, name, nil)
	}
	return filepath.Join(folder, name), nil
}

// Compile-time interface compliance check.
var _ types.LocalStore = (*Store)(nil)
