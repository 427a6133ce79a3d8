package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubgate/hubgate/internal/config"
	"github.com/hubgate/hubgate/internal/delivery"
	"github.com/hubgate/hubgate/internal/lock"
	"github.com/hubgate/hubgate/internal/log"
	"github.com/hubgate/hubgate/internal/storage"
	"github.com/hubgate/hubgate/internal/tui/watch"
	"github.com/hubgate/hubgate/internal/webhook"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "watch":
		os.Exit(runWatch(args))
	case "version":
		fmt.Printf("hubgate version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`hubgate - Hub-style webhook callback gateway

Usage:
  hubgate <command> [flags]

Commands:
  start             Start the gateway service in foreground
  config lock       Authorize current config (update integrity hashes)
  config check      Validate syntax, policy, and integrity
  watch             Live view of stored deliveries

General:
  version           Show version information
  help              Show this help message

Use 'hubgate <command> --help' for command-specific flags.
`)
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hubgate config <lock|check> [flags]")
		return 1
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "lock":
		return runConfigLock(actionArgs)
	case "check":
		return runConfigCheck(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	discovered, err := config.DiscoverConfigPath()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(os.Stderr, "Using discovered config: %s\n", discovered)
	return discovered, nil
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to discover config: %v\n", err)
		return 1
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("main")
	logger.Info("hubgate starting", "version", version, "config", path)

	pidLockPath := getPIDLockPath(cfg)
	pidLock, err := lock.AcquirePIDLock(pidLockPath)
	if err != nil {
		logger.Error("failed to acquire PID lock (another instance may be running)", "path", pidLockPath, "error", err)
		return 1
	}
	defer pidLock.Release()
	logger.Info("acquired PID lock", "path", pidLockPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.OpenSQLite(ctx, cfg.State.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.State.Path, "error", err)
		return 1
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.State.Path)

	store := delivery.NewStore(db)

	webhookCfg, receivers, err := webhook.FromGlobalConfig(&cfg.Webhooks, store, log.WithComponent("hub"))
	if err != nil {
		logger.Error("failed to build webhook config", "error", err)
		return 1
	}
	for name := range receivers {
		logger.Info("receiver registered", "receiver", name)
	}

	server, err := webhook.New(webhookCfg, receivers, log.WithComponent("webhook"))
	if err != nil {
		logger.Error("failed to build webhook server", "error", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		if err := <-errCh; err != nil && err != context.Canceled {
			logger.Error("webhook server shutdown failed", "error", err)
			return 1
		}
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			logger.Error("webhook server failed", "error", err)
			return 1
		}
	}

	return 0
}

func runConfigLock(args []string) int {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to discover config: %v\n", err)
		return 1
	}
	if stat, serr := os.Stat(path); serr == nil && stat.IsDir() {
		path = filepath.Join(path, "config.yaml")
	}

	checksumPath, err := config.GenerateChecksums(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update checksums: %v\n", err)
		return 1
	}

	fmt.Printf("Checksums written to %s\n", checksumPath)
	return 0
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to discover config: %v\n", err)
		return 1
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	fmt.Printf("OK: %d receiver(s), listening on %s\n", len(cfg.Webhooks.Receivers), cfg.Webhooks.Listen)
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to discover config: %v\n", err)
		return 1
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, cfg.State.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	model := watch.New(delivery.NewStore(db))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Watch TUI failed: %v\n", err)
		return 1
	}
	return 0
}

// getPIDLockPath derives the lock file location from the state path so a
// second instance pointed at the same database is refused.
func getPIDLockPath(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.State.Path), "hubgate.lock")
}
