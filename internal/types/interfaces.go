// internal/types/interfaces.go
package types

import (
	"context"
)

// DataDirProvider resolves the private application data directory. It is the
// only capability the host environment has to supply.
type DataDirProvider interface {
	AppDataDir() (string, error)
}

type BlobStore interface {
	EnsureDataFolder(ctx context.Context) (string, error)
	SaveData(ctx context.Context, path, content string) error
	LoadData(ctx context.Context, path string) (string, error)
}

type ScreenshotStore interface {
	SaveScreenshot(ctx context.Context, tradeID, filename string, data []byte) (string, error)
	LoadScreenshot(ctx context.Context, filename string) (string, error)
	DeleteScreenshot(ctx context.Context, filename string) error
	ListScreenshots(ctx context.Context) ([]string, error)
	ScreenshotStats(ctx context.Context) (ScreenshotStats, error)
}

// LocalStore is the full persistence surface exposed to the UI.
type LocalStore interface {
	BlobStore
	ScreenshotStore
	Export(ctx context.Context) (*Snapshot, error)
	Import(ctx context.Context, snap *Snapshot) ([]string, error)
}
