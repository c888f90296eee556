package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"pricewatch/internal/infrastructure/config"
	"pricewatch/internal/infrastructure/container"
	"pricewatch/internal/infrastructure/logger"
	"pricewatch/internal/interfaces/httpapi"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.SetupWith(cfg.App.LogLevel, os.Stdout)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init container failed")
	}
	defer c.Close()

	e := httpapi.NewRouter(httpapi.NewHandler(c.NewTracker(), cfg.PushInterval()))
	if err := httpapi.Serve(ctx, e, cfg.Server.Addr); err != nil {
		log.Error().Err(err).Msg("http server exited")
		return
	}
	log.Info().Msg("http server stopped")
}
