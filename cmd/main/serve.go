package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"brandmatch-service/internal/app"
	"brandmatch-service/internal/config"
	serverhttp "brandmatch-service/server/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API: /match, /keywords, /catalog",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := config.SetupLogger(cfg, false)

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	r := serverhttp.NewRouter(cfg, serverhttp.Deps{
		Service:  a.Service,
		Keywords: a.Keywords,
		Catalog:  a.Catalog,
	}, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		logger.Error().Err(err).Msg("listen")
		return err
	}
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
	return nil
}
