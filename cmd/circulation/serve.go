package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/oteladapters"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/promadapters"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/archive"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deletebook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/httpapi"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func newServeCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, newLogger(cmd.OutOrStdout(), cfg))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *oteladapters.TraceCorrelatedLogger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := observability{
		metrics:          promadapters.NewMetricsCollector(registry),
		contextualLogger: logger,
	}

	if cfg.TracingEnabled() {
		tracerProvider, err := config.NewTracerProvider(ctx, cfg.OTLPEndpoint, version)
		if err != nil {
			return err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WarnContext(shutdownCtx, "tracer provider shutdown failed", "error", err.Error())
			}
		}()

		obs.tracing = oteladapters.NewTracingCollector(tracerProvider.Tracer(config.ServiceName))
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.close()

	store, err := newStore(db, cfg, obs)
	if err != nil {
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	var exporter deletebook.LoanArchiveExporter
	if cfg.LoanArchiveEnabled() {
		if exporter, err = newLoanExporter(ctx, cfg); err != nil {
			return err
		}
	}

	handlers, err := buildHandlers(store, exporter, obs)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(
		handlers,
		httpapi.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})),
		httpapi.WithHealthCheck(db.ping),
		httpapi.WithContextualLogging(logger),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "http server listening",
			"addr", cfg.HTTPAddr,
			"adapter", cfg.AdapterType,
			"isolation", cfg.Isolation.String(),
			"loan_archive", cfg.LoanArchiveEnabled(),
			"tracing", cfg.TracingEnabled(),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.InfoContext(context.Background(), "shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-serverErr
}

func newLoanExporter(ctx context.Context, cfg config.Config) (*archive.LoanExporter, error) {
	client, err := archive.NewS3Client(ctx, archive.S3Config{
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.AWSS3Endpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return nil, err
	}

	return archive.NewLoanExporter(client, cfg.LoanArchiveBucket, cfg.LoanArchivePrefix)
}
