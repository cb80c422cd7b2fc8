package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tabvault/config"
	_ "tabvault/docs" // Swagger docs
	"tabvault/internal/auth"
	"tabvault/internal/httpserver"
	"tabvault/internal/storage"
	syncer "tabvault/internal/sync"
	"tabvault/pkg/github"
	"tabvault/pkg/log"
	"tabvault/pkg/oauth"
)

// @title       TabVault API
// @description Tab group manager with local persistence and GitHub Gist backup.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting TabVault...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Storage path: %s", cfg.Storage.Path)

	// 3. Storage
	kv, err := storage.NewFileKV(cfg.Storage.Path, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to open storage: %v", err)
		return
	}
	defer kv.Close()

	store := storage.New(kv, logger)
	if err := store.Init(); err != nil {
		logger.Errorf(ctx, "Failed to initialize storage: %v", err)
		return
	}
	go func() {
		if err := kv.Watch(ctx); err != nil {
			logger.Warnf(ctx, "Storage watcher stopped: %v", err)
		}
	}()

	// 4. GitHub client and OAuth flow
	ghClient := github.NewClient(cfg.GitHub.APIURL)

	flowCfg := oauth.Config{
		AuthURL:      cfg.OAuth.AuthURL,
		TokenURL:     cfg.OAuth.TokenURL,
		Scope:        cfg.OAuth.Scope,
		CallbackPort: cfg.OAuth.CallbackPort,
	}
	if !cfg.OAuth.OpenBrowser {
		flowCfg.OpenBrowser = func(url string) error {
			logger.Infof(ctx, "Open this URL to authorize: %s", url)
			return nil
		}
	}
	flow := oauth.NewFlow(flowCfg, store, logger)

	// 5. Auth session manager
	authMgr := auth.New(logger, store, ghClient, flow)
	if err := seedClientConfig(store, cfg); err != nil {
		logger.Errorf(ctx, "Failed to seed OAuth client settings: %v", err)
		return
	}
	if err := authMgr.Restore(ctx); err != nil {
		logger.Warnf(ctx, "Could not restore session: %v", err)
	}
	authMgr.StartWatching(ctx)
	defer authMgr.StopWatching()

	// 6. Sync
	gistSyncer := syncer.New(logger, store, ghClient, authMgr)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		RateLimitPerMin: cfg.HTTPServer.RateLimitPerMin,
		Store:           store,
		AuthManager:     authMgr,
		Syncer:          gistSyncer,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// seedClientConfig copies the OAuth app identity from static config into the
// stored settings when they are not set there yet. Settings win over config
// so users can rebind the app at runtime.
func seedClientConfig(store *storage.Store, cfg *config.Config) error {
	settings, err := store.GetSettings()
	if err != nil {
		return err
	}

	changed := false
	if settings.GitHubClientID == "" && cfg.GitHub.ClientID != "" {
		settings.GitHubClientID = cfg.GitHub.ClientID
		changed = true
	}
	if settings.GitHubClientSecret == "" && cfg.GitHub.ClientSecret != "" {
		settings.GitHubClientSecret = cfg.GitHub.ClientSecret
		changed = true
	}
	if !changed {
		return nil
	}
	return store.SaveSettings(settings)
}
