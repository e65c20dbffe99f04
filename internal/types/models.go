// internal/types/models.go
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ScreenshotStats aggregates the regular files in the screenshots directory.
// On the wire it is the two-element array [count, totalBytes].
type ScreenshotStats struct {
	Count      int
	TotalBytes int64
}

func (s ScreenshotStats) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{int64(s.Count), s.TotalBytes})
}

func (s *ScreenshotStats) UnmarshalJSON(data []byte) error {
	var pair [2]int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode screenshot stats: %w", err)
	}
	s.Count = int(pair[0])
	s.TotalBytes = pair[1]
	return nil
}

// Bytes is a binary payload that decodes from either a JSON array of
// numbers (0-255) or a standard base64 string.
type Bytes []byte

func (b *Bytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var raw []byte
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode base64 bytes: %w", err)
		}
		*b = raw
		return nil
	case len(data) > 0 && data[0] == '[':
		var nums []int
		if err := json.Unmarshal(data, &nums); err != nil {
			return fmt.Errorf("decode byte array: %w", err)
		}
		out := make([]byte, len(nums))
		for i, n := range nums {
			if n < 0 || n > 255 {
				return fmt.Errorf("byte %d out of range: %d", i, n)
			}
			out[i] = byte(n)
		}
		*b = out
		return nil
	default:
		return fmt.Errorf("bytes must be a number array or base64 string")
	}
}

// ExportDateLayout formats a snapshot's exportDate with millisecond precision.
const ExportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is an export of every journal collection blob.
type Snapshot struct {
	ExportDate  time.Time
	Version     string
	Collections map[string]json.RawMessage
}

// MarshalJSON flattens the collections next to exportDate and version, the
// layout the UI's backup files use.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Collections)+2)
	for k, v := range s.Collections {
		if v == nil {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	out["exportDate"] = s.ExportDate.UTC().Format(ExportDateLayout)
	out["version"] = s.Version
	return json.Marshal(out)
}

// UnmarshalJSON reads a backup document. Every key other than exportDate and
// version is kept as a collection; a null collection decodes as nil.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("snapshot must be a JSON object")
	}

	out := Snapshot{Collections: make(map[string]json.RawMessage, len(doc))}
	for k, v := range doc {
		switch k {
		case "exportDate":
			var stamp string
			if err := json.Unmarshal(v, &stamp); err != nil {
				return fmt.Errorf("exportDate: %w", err)
			}
			if stamp != "" {
				t, err := time.Parse(time.RFC3339Nano, stamp)
				if err != nil {
					return fmt.Errorf("exportDate: %w", err)
				}
				out.ExportDate = t
			}
		case "version":
			if err := json.Unmarshal(v, &out.Version); err != nil {
				return fmt.Errorf("version: %w", err)
			}
		default:
			if string(v) == "null" {
				out.Collections[k] = nil
				continue
			}
			out.Collections[k] = v
		}
	}
	*s = out
	return nil
}
