package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"movemate-admin/internal/auth"
	"movemate-admin/internal/config"
	"movemate-admin/internal/fleet"
	"movemate-admin/internal/httpapi"
	"movemate-admin/internal/metrics"
	"movemate-admin/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "HTTP listen port")
	cmd.Flags().Duration("latency", auth.DefaultLatency, "artificial delay before each auth operation")
	cmd.Flags().String("seed-file", "", "YAML file with admin users to seed")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.BindPFlag("port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("latency", cmd.Flags().Lookup("latency"))
	viper.BindPFlag("seed_file", cmd.Flags().Lookup("seed-file"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg, os.Stderr)

	rootCtx, cancelRoot := context.WithCancel(ctx)
	defer cancelRoot()

	dir, err := openDirectory(rootCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer dir.close()

	storage, err := openStorage(rootCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctrl := auth.NewController(dir.dir, auth.Options{
		Latency:  cfg.Latency,
		ResetTTL: cfg.ResetTTL,
		Logger:   logger,
		Metrics:  m,
	})

	srv := httpapi.NewServer(cfg, httpapi.Deps{
		Controller: ctrl,
		Storage:    storage.store,
		Catalog:    fleet.NewDefaultCatalog(),
		Logger:     logger,
		Gatherer:   reg,
		Checks: map[string]func(context.Context) error{
			dir.name:  dir.ping,
			"storage": storage.ping,
		},
	})

	if purger, ok := dir.dir.(store.TicketPurger); ok && cfg.ResetPurgeInterval > 0 {
		go runPurgeLoop(rootCtx, purger, cfg.ResetPurgeInterval, logger, m)
	}
	go runSweepLoop(rootCtx, srv, storage.sweep, cfg.TabTTL, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("movemate admin listening", "addr", cfg.ListenAddr(), "latency", cfg.Latency)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var serveErr error
	select {
	case <-stop:
		logger.Info("shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	return serveErr
}
