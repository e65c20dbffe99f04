package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/eliteos/internal/backup"
	"github.com/user/eliteos/internal/bridge"
	"github.com/user/eliteos/internal/scheduler"
)

const pidFileName = "eliteos.pid"

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the persistence commands over local HTTP and run scheduled backups",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, pidFileName)
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, store := openStore()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	dataDir, err := store.EnsureDataFolder(ctx)
	if err != nil {
		return err
	}

	// Write PID file
	pidPath, err := writePIDFile(dataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	registry := bridge.NewRegistry()
	bridge.RegisterStore(registry, store)

	backups := backup.NewWriter(store, cfg.Backup.Keep)
	retry := scheduler.DefaultRetryPolicy()
	retry.Retryable = backup.Retryable
	sched := scheduler.New(scheduler.Job{
		Name:     "backup",
		Schedule: cfg.Backup.Schedule,
		Run: func(ctx context.Context) error {
			_, err := backups.Run(ctx)
			return err
		},
		Retry: retry,
	})
	sched.Start(ctx)
	defer sched.Stop()
	for _, e := range sched.Entries() {
		slog.Info("next job run", "name", e.Name, "schedule", e.Schedule, "next", e.Next)
	}

	slog.Info("eliteos started",
		"data_dir", dataDir,
		"log_level", cfg.LogLevel,
		"http_enabled", cfg.HTTP.Enabled,
		"backup_schedule", cfg.Backup.Schedule,
		"pid_file", pidPath,
	)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTP.Enabled {
		if cfg.HTTP.Token == "" {
			slog.Warn("bridge server has no token; any local process can invoke commands")
		}
		httpServer := &http.Server{
			Addr:              cfg.HTTP.Listen,
			Handler:           bridge.NewServer(registry, cfg.HTTP.Token),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			slog.Info("bridge server started", "listen", cfg.HTTP.Listen)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("bridge server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		return waitForSignals(gctx, cancel, dataDir, pidPath)
	})

	return g.Wait()
}

// waitForSignals cancels the serve context on SIGINT or SIGTERM and re-execs
// the binary on SIGHUP.
func waitForSignals(ctx context.Context, cancel context.CancelFunc, dataDir, pidPath string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		var sig os.Signal
		select {
		case <-ctx.Done():
			return nil
		case sig = <-sigChan:
		}

		if sig == syscall.SIGHUP {
			slog.Info("received SIGHUP, restarting")
			execPath, err := os.Executable()
			if err != nil {
				slog.Error("failed to get executable path", "error", err)
				continue
			}
			// Clean up PID file before re-exec
			os.Remove(pidPath)
			if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
				slog.Error("failed to re-exec", "error", err)
				if _, writeErr := writePIDFile(dataDir); writeErr != nil {
					slog.Error("failed to re-write PID file", "error", writeErr)
				}
			}
			continue
		}

		slog.Info("shutting down", "signal", sig)
		cancel()
		return nil
	}
}
