package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/eliteos/internal/bridge"
)

func init() {
	rootCmd.AddCommand(invokeCmd)
}

var invokeCmd = &cobra.Command{
	Use:   "invoke <command> [json-args|-]",
	Short: "Run one bridge command locally and print its JSON result",
	Long: `Run one bridge command against the local data directory, exactly as the
UI would through the bridge. Arguments are a JSON object; "-" reads them
from stdin.

  eliteos invoke load_data '{"path":"trades.json"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		registry := bridge.NewRegistry()
		bridge.RegisterStore(registry, store)

		var raw json.RawMessage
		if len(args) == 2 {
			if args[1] == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				raw = data
			} else {
				raw = json.RawMessage(args[1])
			}
			if !json.Valid(raw) {
				return fmt.Errorf("arguments are not valid JSON")
			}
		}

		result, err := registry.Dispatch(cmd.Context(), args[0], raw)
		if err != nil {
			return fmt.Errorf("%s [%s]", err, bridge.CodeOf(err))
		}
		return printJSON(result)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
