// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

// Package main is the entry point for the Libro client agent.
//
// Libro is a headless client for a library-management service. It keeps
// a local cache of the catalog, aggregate stats, the user's borrowings
// and notification state, coordinates state-changing calls with the
// refresh sequence that keeps that cache consistent, polls the unread
// notification counter, and consumes the service's websocket push
// channel for asynchronous recommendation results.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (env > config.yaml > defaults)
//  2. Logging: zerolog, configured from the logging section
//  3. API client: rate-limited HTTP client wrapped in a circuit breaker
//  4. Session: login with LIBRO_AUTH_USERNAME/LIBRO_AUTH_PASSWORD when
//     set, otherwise anonymous catalog access
//  5. Entity cache: initial warm-up load
//  6. Supervision: unread-count poller (and the metrics listener when
//     enabled) under a suture tree
//
// # Configuration
//
// All settings carry the LIBRO_ env prefix:
//
//	export LIBRO_SERVER_URL=http://localhost:7070/api
//	export LIBRO_REALTIME_URL=ws://localhost:7071
//	export LIBRO_AUTH_USERNAME=reader
//	export LIBRO_AUTH_PASSWORD=secret
//	export LIBRO_METRICS_ENABLED=true
//	./libro
//
// # Signal handling
//
// SIGINT and SIGTERM stop the supervision tree, log out when a session
// was established, and exit.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kfwei/libro/internal/api"
	"github.com/kfwei/libro/internal/config"
	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/notify"
	"github.com/kfwei/libro/internal/recommend"
	"github.com/kfwei/libro/internal/session"
	"github.com/kfwei/libro/internal/store"
	"github.com/kfwei/libro/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors fall back to the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("server_url", cfg.Server.URL).
		Str("realtime_url", cfg.Realtime.URL).
		Msg("Starting Libro client")

	httpClient := api.NewHTTPClient(cfg.Server.URL, api.Options{
		Timeout:   cfg.Server.Timeout,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})
	client := api.NewBreakerClient(httpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := session.NewMemory()
	loggedIn := false
	if cfg.Auth.Username != "" {
		user, err := client.Login(ctx, cfg.Auth.Username, cfg.Auth.Password)
		if err != nil {
			logging.Fatal().Err(err).Str("username", cfg.Auth.Username).Msg("Login failed")
		}
		sess.SetUser(user)
		loggedIn = true
		logging.Info().Str("username", user.Username).Str("userType", user.UserType).Msg("Logged in")
	} else {
		logging.Info().Msg("No credentials configured, browsing anonymously")
	}

	cache := store.New(client, sess)
	if err := cache.Warm(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Initial cache load failed")
	}
	stats := cache.Stats()
	logging.Info().
		Int("total", stats.TotalBooks).
		Int("available", stats.AvailableBooks).
		Int("borrowed", stats.BorrowedBooks).
		Msg("Catalog loaded")

	recommender := recommend.NewService(client, cfg.Realtime.URL, recommend.DefaultTimeout)
	if loggedIn {
		// One-shot warm-up request; failures are informational only.
		go func() {
			results, err := recommender.PersonalRecommendations(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("Personal recommendations unavailable")
				return
			}
			for _, rec := range results {
				logging.Info().
					Str("bookId", rec.Book.ID).
					Str("title", rec.Book.Title).
					Float64("score", rec.Score).
					Str("reason", rec.Reason).
					Msg("Recommended")
			}
		}()
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	poller := notify.NewPoller(cache, notify.DefaultInterval)
	tree.AddBackgroundService(supervisor.NewPollerService(poller))
	if cfg.Metrics.Enabled {
		tree.AddBackgroundService(supervisor.NewMetricsService(cfg.Metrics.Addr))
	}
	errChan := tree.ServeBackground(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errChan:
		if err != nil && ctx.Err() == nil {
			logging.Error().Err(err).Msg("Supervision tree failed")
		}
	}

	cancel()

	if loggedIn {
		logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer logoutCancel()
		if err := client.Logout(logoutCtx); err != nil {
			logging.Warn().Err(err).Msg("Logout failed")
		}
		sess.Clear()
		cache.Clear()
	}

	logging.Info().Msg("Libro client stopped")
}
