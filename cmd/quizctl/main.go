// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is quizctl, the operator command line for quizdeck. It runs
// imports and inspects the category tree against the same document store
// and Valkey instance the server uses.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/docstore"
	"quizdeck/internal/docstore/backend"
	"quizdeck/internal/store"
)

// opener opens the document store for a command run.
type opener func(ctx context.Context, cfg *config.Config) (docstore.Store, error)

// env holds the connections shared by every subcommand.
type env struct {
	docs       docstore.Store
	valkey     *redis.Client
	categories *store.CategoryStore
	questions  *store.QuestionStore
	tree       *cache.TreeCache
	out        io.Writer
}

func (e *env) close() {
	if e.valkey != nil {
		e.valkey.Close()
	}
	e.docs.Close()
}

func main() {
	if err := newRootCmd(backend.Open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "quizctl",
		Short:         "Operate a quizdeck workspace",
		Long:          "quizctl imports category paths and question sheets into the quizdeck\ndocument store and prints what is stored.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	// connect is called by each subcommand once flags are parsed.
	connect := func(cmd *cobra.Command) (*env, error) {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return nil, err
		}

		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		docs, err := open(cmd.Context(), cfg)
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}

		// Without Valkey the server keeps serving its cached tree until the
		// TTL expires; the command itself still works.
		vk, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, tree cache not refreshed", "error", err)
			vk = nil
		}

		categories := store.NewCategoryStore(docs)
		return &env{
			docs:       docs,
			valkey:     vk,
			categories: categories,
			questions:  store.NewQuestionStore(docs),
			tree:       cache.NewTreeCache(vk, categories, cache.DefaultTreeTTL),
			out:        cmd.OutOrStdout(),
		}, nil
	}

	root.AddCommand(
		newImportCmd(connect),
		newTreeCmd(connect),
		newQuestionsCmd(connect),
	)
	return root
}
