package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/fatih/color"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for static builds

	"github.com/ericfisherdev/canvasdue/internal/adapter/driven/canvas"
	"github.com/ericfisherdev/canvasdue/internal/adapter/driven/filestore"
	"github.com/ericfisherdev/canvasdue/internal/adapter/driving/cli"
	"github.com/ericfisherdev/canvasdue/internal/application"
	"github.com/ericfisherdev/canvasdue/internal/config"
	"github.com/ericfisherdev/canvasdue/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		if hint := cli.ErrorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Debug("config loaded",
		"base_url", cfg.BaseURL.String(),
		"config_dir", cfg.Paths.ConfigDir,
		"cache_dir", cfg.Paths.CacheDir,
		"fetch_concurrency", cfg.FetchConcurrency,
		"undated", cfg.Undated,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire adapters.
	clock := driven.ClockFunc(time.Now)
	credentialStore := filestore.NewCredentialRepo(cfg.Paths.CredentialFile())
	cacheStore := filestore.NewCacheStore(cfg.Paths.CacheFile, cfg.CacheWindows(), clock)
	lmsClient := canvas.NewClient(cfg.BaseURL, credentialStore, cfg.RequestTimeout)

	// 4. Create due service.
	dueSvc := application.NewDueService(lmsClient, cacheStore, clock, application.DueOptions{
		Undated:     cfg.Undated,
		Concurrency: cfg.FetchConcurrency,
		Progress:    cli.ProgressFor(os.Stderr),
	})

	// 5. Run the command tree. Browser launcher chatter must not mix with table output.
	browser.Stdout = os.Stderr
	root := cli.NewRootCommand(cli.Deps{
		Due:         dueSvc,
		Credentials: credentialStore,
		TokenURL:    cfg.TokenSettingsURL(),
		OpenBrowser: browser.OpenURL,
		Color:       !color.NoColor,
	})
	return root.ExecuteContext(ctx)
}
