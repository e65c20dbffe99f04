//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/user/eliteos/internal/appdir"
	"github.com/user/eliteos/internal/backup"
	"github.com/user/eliteos/internal/bridge"
	"github.com/user/eliteos/internal/state"
)

const token = "integration-token"

type client struct {
	t    *testing.T
	base string
}

func (c *client) invoke(command string, args any) (int, json.RawMessage) {
	c.t.Helper()
	var body io.Reader
	if args != nil {
		data, err := json.Marshal(args)
		require.NoError(c.t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(http.MethodPost, c.base+"/invoke/"+command, body)
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, raw
}

func (c *client) mustInvoke(command string, args any, out any) {
	c.t.Helper()
	status, raw := c.invoke(command, args)
	require.Equal(c.t, http.StatusOK, status, "%s: %s", command, raw)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(raw, out))
	}
}

func TestEndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "com.eliteos.app")
	store := state.NewStore(appdir.Static(dir))

	registry := bridge.NewRegistry()
	bridge.RegisterStore(registry, store)
	srv := httptest.NewServer(bridge.NewServer(registry, token))
	defer srv.Close()

	c := &client{t: t, base: srv.URL}

	var folder string
	c.mustInvoke("ensure_data_folder", nil, &folder)
	assert.Equal(t, dir, folder)

	// First launch: nothing stored yet.
	var trades string
	c.mustInvoke("load_data", map[string]string{"path": "trades.json"}, &trades)
	assert.Empty(t, trades)

	c.mustInvoke("save_data", map[string]string{"path": "trades.json", "data": `[{"id":"t1","symbol":"NQ"}]`}, nil)
	c.mustInvoke("load_data", map[string]string{"path": "trades.json"}, &trades)
	assert.JSONEq(t, `[{"id":"t1","symbol":"NQ"}]`, trades)

	var name string
	c.mustInvoke("save_screenshot", map[string]any{
		"tradeId":  "t1",
		"filename": "entry.png",
		"bytes":    []int{0x89, 0x50, 0x4E, 0x47},
	}, &name)
	assert.Equal(t, "t1_entry.png", name)

	var uri string
	c.mustInvoke("load_screenshot", map[string]string{"filename": name}, &uri)
	assert.Equal(t, "data:image/*;base64,iVBORw==", uri)

	// Parallel saves from several trades.
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			status, raw := c.invoke("save_screenshot", map[string]any{
				"tradeId":  fmt.Sprintf("p%d", i),
				"filename": "chart.png",
				"bytes":    []int{1, 2, 3, 4, 5},
			})
			if status != http.StatusOK {
				return fmt.Errorf("save %d: %d %s", i, status, raw)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var names []string
	c.mustInvoke("list_screenshots", nil, &names)
	assert.Len(t, names, 9)

	var stats [2]int64
	c.mustInvoke("screenshot_stats", nil, &stats)
	assert.Equal(t, [2]int64{9, 4 + 8*5}, stats)

	c.mustInvoke("delete_screenshot", map[string]string{"filename": name}, nil)
	status, raw := c.invoke("load_screenshot", map[string]string{"filename": name})
	assert.Equal(t, http.StatusNotFound, status, string(raw))

	var export map[string]any
	c.mustInvoke("export_data", nil, &export)
	assert.Equal(t, "1.0", export["version"])
	assert.NotNil(t, export["trades"])
	assert.Nil(t, export["habits"])

	// Scheduled backups snapshot the same data.
	writer := backup.NewWriter(store, 1)
	_, err := writer.Run(context.Background())
	require.NoError(t, err)
	list, err := writer.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Backups live beside screenshots, not among them.
	c.mustInvoke("list_screenshots", nil, &names)
	assert.Len(t, names, 8)
}

func TestEndToEndRejectsMissingToken(t *testing.T) {
	registry := bridge.NewRegistry()
	bridge.RegisterStore(registry, state.NewStore(appdir.Static(t.TempDir())))
	srv := httptest.NewServer(bridge.NewServer(registry, token))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/invoke/list_screenshots", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
