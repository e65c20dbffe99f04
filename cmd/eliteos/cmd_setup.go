package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/eliteos/internal/config"
	"github.com/user/eliteos/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(cfgPath)
		if err != nil {
			return err
		}
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("EliteOS Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		cfg.DataDir = prompt(scanner, "Data directory (blank for the platform default)", cfg.DataDir)
		cfg.HTTP.Listen = prompt(scanner, "Bridge listen address", cfg.HTTP.Listen)
		cfg.HTTP.Token = prompt(scanner, "Bridge token (optional)", cfg.HTTP.Token)

		schedule := prompt(scanner, "Backup schedule, cron or @daily (blank disables)", cfg.Backup.Schedule)
		if schedule != "" {
			if err := scheduler.Validate(schedule); err != nil {
				return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
			}
		}
		cfg.Backup.Schedule = schedule

		keep := prompt(scanner, "Backups to keep (0 keeps all)", strconv.Itoa(cfg.Backup.Keep))
		n, err := strconv.Atoi(keep)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid backups to keep %q: must be a whole number, 0 or more", keep)
		}
		cfg.Backup.Keep = n

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
