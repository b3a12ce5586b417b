package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"switchboard/internal/command"
	"switchboard/internal/config"
	"switchboard/internal/health"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the command endpoint",
	Long: `Listens for POST /cmd requests carrying open_target / open_tab_like
commands and executes them one at a time. Commands queue behind the focus
token; they are never interleaved.

The tracked-target list reloads automatically when the config file changes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	rt := newRuntime(cfg)
	defer rt.close()

	// The bridge is a hard dependency: without it no UI action is possible.
	report := health.Check(cmd.Context(), rt.bridge, cfg.Recognizer.Binary, rt.chrome)
	for _, item := range report {
		if item.OK() {
			logger.Info("dependency ok", zap.String("name", item.Name))
		} else {
			logger.Warn("dependency unavailable",
				zap.String("name", item.Name),
				zap.Bool("optional", item.Optional),
				zap.Error(item.Err))
		}
	}
	if !report.Healthy() {
		return fmt.Errorf("bridge at %s is unreachable; start it and retry", cfg.Bridge.URL)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hot-reload tracked targets while serving.
	go func() {
		err := config.Watch(ctx, configPath, logger, rt.reload)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watch stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           (&command.Server{Dispatcher: rt.dispatcher, Log: logger}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("serving", zap.String("addr", cfg.Serve.Addr))
	fmt.Println(okStyle.Render("✓ listening on " + cfg.Serve.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
