package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataGetCmd, dataPutCmd, dataDirCmd)

	dataPutCmd.Flags().StringP("file", "f", "", "read content from a local file instead of an argument")
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Read and write text blobs in the data directory",
}

var dataDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the data directory, creating it if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		dir, err := store.EnsureDataFolder(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, dir)
		return nil
	},
}

var dataGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print a blob; missing blobs print nothing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store := openStore()
		content, err := store.LoadData(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, content)
		return nil
	},
}

var dataPutCmd = &cobra.Command{
	Use:   "put <path> [content|-]",
	Short: "Replace a blob with the given content, a file, or stdin",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		var content string
		switch {
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			content = string(data)
		case len(args) == 2 && args[1] != "-":
			content = args[1]
		default:
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = string(data)
		}

		_, store := openStore()
		if err := store.SaveData(cmd.Context(), args[0], content); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %d bytes to %s.\n", len(content), args[0])
		return nil
	},
}
