// internal/bridge/commands.go
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/eliteos/internal/state"
	"github.com/user/eliteos/internal/types"
)

type pathArgs struct {
	Path *string `json:"path"`
}

type saveDataArgs struct {
	Path *string `json:"path"`
	Data *string `json:"data"`
}

type saveScreenshotArgs struct {
	TradeID  *string      `json:"tradeId"`
	Filename *string      `json:"filename"`
	Bytes    *types.Bytes `json:"bytes"`
}

type filenameArgs struct {
	Filename *string `json:"filename"`
}

type importArgs struct {
	Data *types.Snapshot `json:"data"`
}

// RegisterStore binds the persistence commands to store under the names the
// UI invokes them by.
func RegisterStore(r *Registry, store types.LocalStore) {
	r.Register(state.OpEnsureDataFolder, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return store.EnsureDataFolder(ctx)
	})

	r.Register(state.OpSaveData, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args saveDataArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := requireArgs("path", args.Path, "data", args.Data); err != nil {
			return nil, err
		}
		return nil, store.SaveData(ctx, *args.Path, *args.Data)
	})

	r.Register(state.OpLoadData, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args pathArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := requireArgs("path", args.Path); err != nil {
			return nil, err
		}
		return store.LoadData(ctx, *args.Path)
	})

	r.Register(state.OpSaveScreenshot, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args saveScreenshotArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := requireArgs("tradeId", args.TradeID, "filename", args.Filename); err != nil {
			return nil, err
		}
		if args.Bytes == nil {
			return nil, fmt.Errorf("%w: missing required key bytes", ErrInvalidArgs)
		}
		return store.SaveScreenshot(ctx, *args.TradeID, *args.Filename, *args.Bytes)
	})

	r.Register(state.OpLoadScreenshot, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args filenameArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := requireArgs("filename", args.Filename); err != nil {
			return nil, err
		}
		return store.LoadScreenshot(ctx, *args.Filename)
	})

	r.Register(state.OpDeleteScreenshot, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args filenameArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := requireArgs("filename", args.Filename); err != nil {
			return nil, err
		}
		return nil, store.DeleteScreenshot(ctx, *args.Filename)
	})

	r.Register(state.OpListScreenshots, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return store.ListScreenshots(ctx)
	})

	r.Register(state.OpScreenshotStats, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return store.ScreenshotStats(ctx)
	})

	r.Register(state.OpExportData, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return store.Export(ctx)
	})

	r.Register(state.OpImportData, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args importArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Data == nil {
			return nil, fmt.Errorf("%w: missing required key data", ErrInvalidArgs)
		}
		return store.Import(ctx, args.Data)
	})
}

func decodeArgs(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}

// requireArgs takes alternating key names and values and fails on the first
// missing one.
func requireArgs(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if v, ok := pairs[i+1].(*string); !ok || v == nil {
			return fmt.Errorf("%w: missing required key %s", ErrInvalidArgs, pairs[i])
		}
	}
	return nil
}
