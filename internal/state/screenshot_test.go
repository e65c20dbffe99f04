// internal/state/screenshot_test.go
package state

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestSaveScreenshotReturnsCompositeName(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	name, err := store.SaveScreenshot(ctx, "trade42", "chart.png", pngMagic)
	require.NoError(t, err)
	assert.Equal(t, "trade42_chart.png", name)

	onDisk, err := os.ReadFile(filepath.Join(dir, ScreenshotsDir, "trade42_chart.png"))
	require.NoError(t, err)
	assert.Equal(t, pngMagic, onDisk)

	stats, err := store.ScreenshotStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, int64(4), stats.TotalBytes)
}

func TestLoadScreenshotDataURI(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	name, err := store.SaveScreenshot(ctx, "trade42", "chart.png", pngMagic)
	require.NoError(t, err)

	uri, err := store.LoadScreenshot(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "data:image/*;base64,"+base64.StdEncoding.EncodeToString(pngMagic), uri)
	assert.Equal(t, "data:image/*;base64,iVBORw==", uri)
}

func TestLoadScreenshotEmptyFile(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	name, err := store.SaveScreenshot(ctx, "t", "empty.png", nil)
	require.NoError(t, err)

	uri, err := store.LoadScreenshot(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, DataURIPrefix, uri)
}

func TestSaveScreenshotCollisionOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveScreenshot(ctx, "t1", "a.png", []byte("first"))
	require.NoError(t, err)
	_, err = store.SaveScreenshot(ctx, "t1", "a.png", []byte("second!"))
	require.NoError(t, err)

	names, err := store.ListScreenshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1_a.png"}, names)

	stats, err := store.ScreenshotStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, int64(len("second!")), stats.TotalBytes)
}

func TestListAndStatsAfterManySaves(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var want []string
	var total int64
	for i := 0; i < 5; i++ {
		payload := make([]byte, 10*(i+1))
		name, err := store.SaveScreenshot(ctx, fmt.Sprintf("trade%d", i), "shot.png", payload)
		require.NoError(t, err)
		want = append(want, name)
		total += int64(len(payload))
	}

	names, err := store.ListScreenshots(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, names)

	stats, err := store.ScreenshotStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, total, stats.TotalBytes)
}

func TestListExcludesDirectories(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveScreenshot(ctx, "t", "a.png", []byte("abc"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ScreenshotsDir, "thumbs"), 0o755))

	names, err := store.ListScreenshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t_a.png"}, names)

	stats, err := store.ScreenshotStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, int64(3), stats.TotalBytes)
}

func TestListOnFreshDataDirIsEmpty(t *testing.T) {
	store, dir := newTestStore(t)

	names, err := store.ListScreenshots(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	stats, err := store.ScreenshotStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.TotalBytes)

	// The screenshots folder is created lazily.
	info, err := os.Stat(filepath.Join(dir, ScreenshotsDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDeleteScreenshot(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	keep, err := store.SaveScreenshot(ctx, "t1", "keep.png", []byte("k"))
	require.NoError(t, err)
	gone, err := store.SaveScreenshot(ctx, "t2", "gone.png", []byte("g"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteScreenshot(ctx, gone))

	names, err := store.ListScreenshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, names)

	_, err = store.LoadScreenshot(ctx, gone)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingScreenshotFails(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.DeleteScreenshot(context.Background(), "nope_missing.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestDeleteScreenshotRefusesDirectory(t *testing.T) {
	store, dir := newTestStore(t)
	sub := filepath.Join(dir, ScreenshotsDir, "thumbs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	err := store.DeleteScreenshot(context.Background(), "thumbs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)

	_, statErr := os.Stat(sub)
	assert.NoError(t, statErr)
}

func TestLoadMissingScreenshotFails(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.LoadScreenshot(context.Background(), "missing.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScreenshotNamesMustBeSingleElement(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveScreenshot(ctx, "../t", "x.png", pngMagic)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = store.SaveScreenshot(ctx, "t", "dir/x.png", pngMagic)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = store.LoadScreenshot(ctx, "../settings.json")
	assert.ErrorIs(t, err, ErrInvalidPath)

	err = store.DeleteScreenshot(ctx, "..")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = store.LoadScreenshot(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestScreenshotFolderCreationError(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	// A file where the screenshots folder should be.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ScreenshotsDir), []byte("x"), 0o644))

	_, err := store.SaveScreenshot(context.Background(), "t", "a.png", pngMagic)
	assert.ErrorIs(t, err, ErrDirectoryCreation)

	_, err = store.ListScreenshots(context.Background())
	assert.ErrorIs(t, err, ErrDirectoryCreation)

	_, err = store.ScreenshotStats(context.Background())
	assert.ErrorIs(t, err, ErrDirectoryCreation)
}

func TestScreenshotsResolutionError(t *testing.T) {
	store := NewStore(failingDirs{})
	ctx := context.Background()

	_, err := store.SaveScreenshot(ctx, "t", "a.png", pngMagic)
	assert.ErrorIs(t, err, ErrDirectoryResolution)
	_, err = store.ListScreenshots(ctx)
	assert.ErrorIs(t, err, ErrDirectoryResolution)
}
