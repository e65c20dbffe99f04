// internal/state/export.go
package state

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/user/eliteos/internal/types"
)

// SnapshotVersion is the version stamped on exported snapshots.
const SnapshotVersion = "1.0"

// Collection maps an export key to the blob file the UI persists it in.
type Collection struct {
	Key  string
	File string
}

// Collections lists the journal blobs included in an export.
var Collections = []Collection{
	{Key: "habits", File: "habits.json"},
	{Key: "trades", File: "trades.json"},
	{Key: "goals", File: "goals.json"},
	{Key: "budgetItems", File: "budget.json"},
	{Key: "dailyReviews", File: "dailyReviews.json"},
	{Key: "mindsetLogs", File: "mindsetLogs.json"},
	{Key: "settings", File: "settings.json"},
}

var errInvalidJSON = errors.New("content is not valid JSON")

// Export loads every journal collection into a single snapshot. Collections
// that were never saved export as null.
func (s *Store) Export(ctx context.Context) (*types.Snapshot, error) {
	snap := &types.Snapshot{
		ExportDate:  time.Now().UTC(),
		Version:     SnapshotVersion,
		Collections: make(map[string]json.RawMessage, len(Collections)),
	}

	for _, c := range Collections {
		raw, err := s.LoadData(ctx, c.File)
		if err != nil {
			var se *Error
			if errors.As(err, &se) {
				se.Op = OpExportData
			}
			return nil, err
		}
		if raw == "" {
			snap.Collections[c.Key] = nil
			continue
		}
		if !json.Valid([]byte(raw)) {
			return nil, newError(OpExportData, ErrRead, c.File, errInvalidJSON)
		}
		snap.Collections[c.Key] = json.RawMessage(raw)
	}
	return snap, nil
}

// Import writes each journal collection present in snap back to its blob
// file and returns the keys it wrote. Null or absent collections leave their
// file untouched, and keys that are not journal collections are ignored.
func (s *Store) Import(ctx context.Context, snap *types.Snapshot) ([]string, error) {
	for _, c := range Collections {
		raw := snap.Collections[c.Key]
		if raw != nil && !json.Valid(raw) {
			return nil, newError(OpImportData, ErrWrite, c.File, errInvalidJSON)
		}
	}

	imported := make([]string, 0, len(Collections))
	for _, c := range Collections {
		raw, ok := snap.Collections[c.Key]
		if !ok || raw == nil {
			continue
		}
		if err := s.SaveData(ctx, c.File, string(raw)); err != nil {
			var se *Error
			if errors.As(err, &se) {
				se.Op = OpImportData
			}
			return imported, err
		}
		imported = append(imported, c.Key)
	}
	return imported, nil
}
