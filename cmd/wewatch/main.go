package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/MykolaZahanych/we-watch/internal/app"
	"github.com/MykolaZahanych/we-watch/internal/config"
	"github.com/MykolaZahanych/we-watch/internal/database"
	"github.com/MykolaZahanych/we-watch/internal/logging"
	"github.com/MykolaZahanych/we-watch/internal/previewcache"
	"github.com/MykolaZahanych/we-watch/internal/seed"
)

func main() {
	// Check for subcommands before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "seed":
			runSeed(os.Args[2:])
			return
		case "preview":
			runPreview(os.Args[2:])
			return
		}
	}

	flags := config.SetupFlags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		slog.Error("error parsing flags", "error", err)
		os.Exit(1)
	}

	configPath, _ := flags.GetString("config")

	cfg, err := config.Load(configPath, flags)
	if err != nil {
		slog.Error("error loading config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log)

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("error creating application", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("received shutdown signal")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := application.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during shutdown", "error", err)
		}
	}()

	if err := application.Start(ctx); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func runSeed(args []string) {
	flags := config.SetupFlags()
	if err := flags.Parse(args); err != nil {
		slog.Error("error parsing flags", "error", err)
		os.Exit(1)
	}

	configPath, _ := flags.GetString("config")

	cfg, err := config.Load(configPath, flags)
	if err != nil {
		slog.Error("error loading config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log)

	// Open database and run migrations (no full app startup)
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("error opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		slog.Error("error running migrations", "error", err)
		os.Exit(1)
	}

	if err := seed.Run(context.Background(), db.DB); err != nil {
		slog.Error("error seeding database", "error", err)
		os.Exit(1)
	}
}

// runPreview resolves preview images for the given links through the
// two-tier client cache, so repeated invocations hit the durable cache
// instead of the server.
func runPreview(args []string) {
	flags := pflag.NewFlagSet("preview", pflag.ContinueOnError)
	serverURL := flags.String("server", "http://localhost:8080", "Base URL of the we-watch server")
	cacheDir := flags.String("cache-dir", defaultCacheDir(), "Directory for the durable preview cache")
	if err := flags.Parse(args); err != nil {
		slog.Error("error parsing flags", "error", err)
		os.Exit(1)
	}

	links := flags.Args()
	if len(links) == 0 {
		fmt.Fprintln(os.Stderr, "usage: wewatch preview [--server URL] [--cache-dir DIR] <link> [link...]")
		os.Exit(2)
	}

	storage := previewcache.NewFileStorage(*cacheDir, 0)
	source := previewcache.NewAPIClient(*serverURL, nil)
	cache := previewcache.New(storage, source)

	ctx := context.Background()
	for _, link := range links {
		if image := cache.GetImage(ctx, link); image != nil {
			fmt.Printf("%s\t%s\n", link, *image)
		} else {
			fmt.Printf("%s\t-\n", link)
		}
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".wewatch-cache"
	}
	return filepath.Join(base, "wewatch")
}
