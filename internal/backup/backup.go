// Package backup writes timestamped export snapshots of the journal next to
// the data it copies.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/user/eliteos/internal/state"
	"github.com/user/eliteos/internal/types"
)

// Dir is the data directory subfolder that holds backups.
const Dir = "backups"

const (
	filePrefix = "elite-os-backup-"
	fileSuffix = ".json"
	// Lexical order of the stamp is chronological order.
	stampLayout = "20060102T150405.000Z"
)

// Info describes one backup file.
type Info struct {
	Name    string
	Path    string
	Size    int64
	Created time.Time
}

// Writer snapshots a store into the backups folder.
type Writer struct {
	store  types.LocalStore
	keep   int
	now    func() time.Time
	remove func(string) error
}

// NewWriter creates a Writer that retains the newest keep backups. A keep of
// zero or less retains everything.
func NewWriter(store types.LocalStore, keep int) *Writer {
	return &Writer{store: store, keep: keep, now: time.Now, remove: os.Remove}
}

// Run writes one backup and prunes old ones. It returns the new file's path.
// A failed prune is logged and does not fail the run, since the new backup
// is already on disk.
func (w *Writer) Run(ctx context.Context) (string, error) {
	snap, err := w.store.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	dir, err := w.dir(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(dir, filePrefix+w.now().UTC().Format(stampLayout)+fileSuffix)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename backup: %w", err)
	}
	slog.Info("backup written", "path", path, "bytes", len(data))

	if err := w.prune(ctx); err != nil {
		slog.Warn("backup prune failed", "error", err)
	}
	return path, nil
}

// List returns the existing backups, newest first. A missing backups folder
// lists as empty.
func (w *Writer) List(ctx context.Context) ([]Info, error) {
	dir, err := w.dir(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		created, err := time.Parse(stampLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:    name,
			Path:    filepath.Join(dir, name),
			Size:    info.Size(),
			Created: created,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Load reads the named backup from the backups folder.
func (w *Writer) Load(ctx context.Context, name string) (*types.Snapshot, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return nil, fmt.Errorf("not a backup name: %q", name)
	}
	dir, err := w.dir(ctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse backup %s: %w", name, err)
	}
	return &snap, nil
}

func (w *Writer) prune(ctx context.Context) error {
	if w.keep <= 0 {
		return nil
	}
	backups, err := w.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range backups[min(w.keep, len(backups)):] {
		if err := w.remove(b.Path); err != nil {
			return fmt.Errorf("prune backup %s: %w", b.Name, err)
		}
		slog.Debug("backup pruned", "name", b.Name)
	}
	return nil
}

// Retryable reports whether a failed Run may succeed if tried again. Corrupt
// collections and an unresolvable data directory need a person to fix them.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, state.ErrRead),
		errors.Is(err, state.ErrInvalidPath),
		errors.Is(err, state.ErrDirectoryResolution):
		return false
	default:
		return true
	}
}

func (w *Writer) dir(ctx context.Context) (string, error) {
	root, err := w.store.EnsureDataFolder(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, Dir), nil
}
