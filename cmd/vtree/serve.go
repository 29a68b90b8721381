package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/metrics"
	"github.com/vango-dev/vtree/pkg/server"
	"github.com/vango-dev/vtree/pkg/snapshot"
	"github.com/vango-dev/vtree/pkg/tracing"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live sessions over HTTP and WebSocket",
		Long: `Serve live reconciliation sessions.

Each session owns a native tree. Posting a tree document to
/sessions/{id}/render patches the session and streams the resulting
mutations to every websocket client of /sessions/{id}/ws.

Examples:
  vtree serve
  vtree serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from vtree.json)")
	return cmd
}

// buildServerConfig maps the file configuration onto a server.Config.
// The returned cleanup flushes the tracer provider, if any.
func buildServerConfig(ctx context.Context, cfg *config.Config) (*server.Config, func(), error) {
	sc := &server.Config{
		Address:         cfg.Server.Addr,
		Modules:         cfg.Modules,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		ReadBufferSize:  cfg.Server.ReadBufferSize,
		WriteBufferSize: cfg.Server.WriteBufferSize,
		CheckOrigin:     server.AllowOrigins(cfg.Server.AllowedOrigins),
		Logger:          slog.Default(),
	}
	cleanup := func() {}

	store, err := snapshot.Open(ctx, snapshot.Options{
		Backend: cfg.Snapshot.Backend,
		Dir:     cfg.SnapshotPath(),
		Bucket:  cfg.Snapshot.Bucket,
		Prefix:  cfg.Snapshot.Prefix,
		Region:  cfg.Snapshot.Region,
	})
	if err != nil {
		return nil, cleanup, err
	}
	sc.Store = store

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sc.Metrics = metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(reg),
		)
		sc.Gatherer = reg
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.NewProvider(ctx, tracing.ProviderConfig{
			Exporter:       cfg.Tracing.Exporter,
			ServiceName:    cfg.Tracing.TracerName,
			ServiceVersion: version,
		})
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				slog.Warn("tracer shutdown failed", "error", err)
			}
		}
		sc.Tracer = tracing.New(
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithTracerProvider(tp),
		)
	}

	return sc, cleanup, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sc, cleanup, err := buildServerConfig(ctx, cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	srv, err := server.New(sc)
	if err != nil {
		return err
	}

	slog.Info("vtree serving",
		"addr", sc.Address,
		"modules", sc.Modules,
		"snapshots", cfg.Snapshot.Backend,
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled,
	)
	return srv.Run(ctx)
}
