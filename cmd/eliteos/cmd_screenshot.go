package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/user/eliteos/internal/state"
)

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.AddCommand(screenshotListCmd, screenshotStatsCmd, screenshotSaveCmd, screenshotLoadCmd, screenshotRemoveCmd)

	screenshotSaveCmd.Flags().String("name", "", "stored filename (default: the local file's base name)")
	screenshotLoadCmd.Flags().StringP("output", "o", "", "decode the image into this file instead of printing the data URI")
}

var screenshotCmd = &cobra.Command{
	Use:     "screenshot",
	Aliases: []string{"screenshots"},
	Short:   "Manage trade screenshots",
}

var screenshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored screenshot names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		names, err := store.ListScreenshots(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(os.Stdout, "No screenshots.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	},
}

var screenshotStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show screenshot count and total size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		stats, err := store.ScreenshotStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s screenshots, %s\n",
			humanize.Comma(int64(stats.Count)), humanize.Bytes(uint64(stats.TotalBytes)))
		return nil
	},
}

var screenshotSaveCmd = &cobra.Command{
	Use:   "save <trade-id> <image-file>",
	Short: "Store an image file as a screenshot of a trade",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(args[1])
		}

		_, store := openStore()
		stored, err := store.SaveScreenshot(cmd.Context(), args[0], name, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved %s (%s).\n", stored, humanize.Bytes(uint64(len(data))))
		return nil
	},
}

var screenshotLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Print a screenshot as a data URI, or decode it to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		uri, err := store.LoadScreenshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			fmt.Fprintln(os.Stdout, uri)
			return nil
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, state.DataURIPrefix))
		if err != nil {
			return fmt.Errorf("decode data URI: %w", err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s to %s.\n", humanize.Bytes(uint64(len(data))), output)
		return nil
	},
}

var screenshotRemoveCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a screenshot",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		if err := store.DeleteScreenshot(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted %s.\n", args[0])
		return nil
	},
}
