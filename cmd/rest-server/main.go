// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
	"github.com/ctscout/ct-cert-search/src/rest"
	verpkg "github.com/ctscout/ct-cert-search/src/version"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Config
	opts := rest.Options{
		Addr:            getEnv("SERVER_ADDR", ":8080"),
		CORSOrigin:      getEnv("CORS_ALLOW_ORIGIN", "*"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", rest.DefaultUpstreamTimeout),
	}
	sourceURL := getEnv("CTSEARCH_SOURCE_URL", ctlog.DefaultBaseURL)

	// Services
	engine := ctlog.NewEngine(ctlog.NewHTTPSource(sourceURL, version))
	analyzer := analysis.NewAnalyzer()

	// Router
	r := rest.NewRouter(engine, analyzer, opts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("server starting", "addr", opts.Addr, "source", sourceURL, "version", version)
	if err := rest.Serve(ctx, opts, r); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
