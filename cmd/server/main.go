package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xHacka/login-log-generator/internal/config"
	"github.com/xHacka/login-log-generator/internal/generator"
	"github.com/xHacka/login-log-generator/internal/logging"
	"github.com/xHacka/login-log-generator/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logging.New("info", "console", os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	gen := generator.New(cfg.Generator.MaxQuantity, generator.NewRand(cfg.Generator.Seed))
	live := config.NewLive(cfg)

	handler, err := server.NewRouter(gen, live, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config hot reload
	go func() {
		err := config.Watch(ctx, *configPath, log, func(next *config.Config) {
			gen.SetMaxQuantity(next.Generator.MaxQuantity)
			live.Set(next)
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watcher stopped")
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("listen", cfg.Listen).Int("max_quantity", cfg.Generator.MaxQuantity).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server")
	}
}
