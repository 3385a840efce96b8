// Package main provides the wikioutline binary entry point.
// Wikioutline serves Markdown outlines of Wikipedia country articles over
// HTTP, backed by a content-addressed file cache.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/wikioutline/cache"
	"github.com/c360studio/wikioutline/config"
	"github.com/c360studio/wikioutline/fetch"
	"github.com/c360studio/wikioutline/server"
)

const (
	BuildTime = "dev"
	appName   = "wikioutline"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Wikipedia country outline service",
		Long: `Wikioutline fetches Wikipedia articles for countries, extracts their
heading hierarchy, and serves the result as a Markdown outline.

Fetched pages are cached on disk keyed by URL hash, so each article is
retrieved from Wikipedia at most once until the cache is cleared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, server.Version, BuildTime)
		},
	})

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Operate on the page cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear [url]",
		Short: "Remove one cached page, or every cached page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(configPath, logLevel, args)
		},
	})
	cmd.AddCommand(cacheCmd)

	return cmd
}

// newLogger builds the process logger. A non-empty flag value overrides
// the configured level.
func newLogger(cfg *config.Config, flagLevel string) *slog.Logger {
	levelName := cfg.LogLevel
	if flagLevel != "" {
		levelName = flagLevel
	}

	level := slog.LevelInfo
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func run(configPath, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg, logLevel)

	fetcher := fetch.New(cfg.FetchTimeout, cfg.UserAgent, cfg.MaxContentSize,
		fetch.WithAllowlist(cfg.AllowedURLPatterns))

	pageCache, err := cache.New(cfg.CacheDir, fetcher, logger)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Keep the cache size metrics current while the server runs.
	watcher, err := cache.NewWatcher(pageCache, logger)
	if err != nil {
		logger.Warn("cache watcher unavailable", "error", err)
	} else {
		go watcher.Run(ctx)
	}

	svc := server.NewService(pageCache, logger)
	srv := server.New(cfg.Addr(), svc, pageCache, logger)

	logger.Info("wikioutline ready",
		"version", server.Version,
		"cache_dir", cfg.CacheDir)

	return srv.Run(ctx)
}

// clearCache removes a single URL's cache entry, or the whole cache when
// no URL is given.
func clearCache(configPath, logLevel string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg, logLevel)

	pageCache, err := cache.New(cfg.CacheDir, nil, logger)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	if len(args) == 1 {
		return pageCache.Clear(args[0])
	}
	return pageCache.ClearAll()
}
