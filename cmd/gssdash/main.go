// gssdash — single-page dashboard over the 2018 General Social Survey extract.
//
// Usage:
//
//	gssdash [--config path] [--port 8050] [--debug]
//
// Flags:
//
//	--config  Path to gssdash.yaml (optional; built-in defaults otherwise)
//	--port    Override server.port from config
//	--debug   Verbose logging, detailed error bodies, no-store caching
//
// The whole pipeline (load, clean, aggregate, chart, layout) runs once at
// startup. Any load or schema error aborts startup with a non-zero exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/gssdash/pkg/dashboard"
	"github.com/ruslano69/gssdash/pkg/resultlog"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	portOverride := flag.Int("port", 0, "listen port override")
	debug := flag.Bool("debug", false, "debug mode")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
	}
	if *portOverride != 0 {
		cfg.Server.Port = *portOverride
	}
	if *debug {
		cfg.Server.Debug = true
	}
	if cfg.Server.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Source.URL).Msg("dashboard build failed")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newServer(d, cfg.Server.Debug).routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Bool("debug", cfg.Server.Debug).
			Str("etag", d.ETag).
			Msg("gssdash started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("stopped")
}

// build runs the startup pipeline and reports the outcome to the result log
// when one is configured. A publish failure never blocks startup.
func build(ctx context.Context, cfg *ServeConfig) (*dashboard.Dashboard, error) {
	opts, err := cfg.dashboardOptions()
	if err != nil {
		return nil, err
	}

	d, stats, buildErr := dashboard.Build(ctx, opts)

	if cfg.ResultLog.Enabled() {
		pub := resultlog.NewRedisPublisher(cfg.ResultLog)
		defer pub.Close()
		if err := pub.Publish(ctx, cfg.Server.Name, stats, buildErr); err != nil {
			log.Warn().Err(err).Str("address", cfg.ResultLog.Address).Msg("result log publish failed")
		} else {
			log.Debug().Str("key", pub.StateKey()).Msg("build result published")
		}
	}

	if buildErr != nil {
		return nil, buildErr
	}
	return d, nil
}
