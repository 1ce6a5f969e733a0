// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the quizdeck workspace server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"quizdeck/internal/activity"
	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/docstore/backend"
	"quizdeck/internal/handlers"
	"quizdeck/internal/importer"
	"quizdeck/internal/memo"
	"quizdeck/internal/middleware"
	"quizdeck/internal/render"
	"quizdeck/internal/router"
	"quizdeck/internal/session"
	"quizdeck/internal/storage"
	"quizdeck/internal/store"
)

func main() {
	fs := pflag.NewFlagSet("quizdeck", pflag.ExitOnError)
	config.RegisterFlags(fs)
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"docstore", cfg.DocstoreBackend,
	)

	ctx := context.Background()

	docs, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	defer docs.Close()

	// Valkey holds sessions, activity logs and the tree cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	archive, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if archive != nil {
		slog.Info("upload archive enabled", "endpoint", cfg.S3Endpoint, "bucket", archive.Bucket())
	} else {
		slog.Warn("s3 storage not configured, uploads are not archived")
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	categories := store.NewCategoryStore(docs)
	questions := store.NewQuestionStore(docs)
	tree := cache.NewTreeCache(valkeyClient, categories, cache.DefaultTreeTTL)
	if err := tree.Reload(ctx); err != nil {
		slog.Warn("initial tree build failed", "error", err)
	}

	activityLog := activity.New(valkeyClient, cfg.ActivityMaxEntries)
	imp := importer.New(docs, categories, questions, tree)
	memos := memo.New(questions, cfg.MemoSaveDelay, handlers.MemoResultLogger(activityLog))
	sessionStore := session.NewStore(valkeyClient, cfg.SecureCookies)

	ws := handlers.NewWorkspace(renderer, sessionStore, categories, questions, tree, imp, memos, activityLog, archive, cfg.MaxUploadBytes())

	var limiter *middleware.RateLimiter
	if cfg.ImportRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.ImportRateLimit, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(sessionStore, ws, router.Options{
		SecureCookies: cfg.SecureCookies,
		ImportLimiter: limiter,
	})

	// WriteTimeout covers parsing and committing a full upload.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Write memos still waiting for their delay before the store closes.
	memos.Close()

	slog.Info("server stopped gracefully")
}
