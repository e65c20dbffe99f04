package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/eliteos/internal/backup"
	"github.com/user/eliteos/internal/types"
)

func init() {
	rootCmd.AddCommand(importCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an exported JSON document, or - for stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		var snap types.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		_, store := openStore()
		imported, err := store.Import(cmd.Context(), &snap)
		if err != nil {
			return err
		}
		printImported(imported)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Import a backup by the name shown in backup list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store := openStore()
		snap, err := backup.NewWriter(store, cfg.Backup.Keep).Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		imported, err := store.Import(cmd.Context(), snap)
		if err != nil {
			return err
		}
		printImported(imported)
		return nil
	},
}

func printImported(keys []string) {
	if len(keys) == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to import.")
		return
	}
	fmt.Fprintf(os.Stdout, "Imported %s.\n", strings.Join(keys, ", "))
}
