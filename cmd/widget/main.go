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
	"pricewatch/internal/interfaces/widget"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.SetupWith(cfg.App.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init container failed")
	}
	defer c.Close()

	tr := c.NewTracker()
	g, err := widget.NewGame(ctx, tr, widget.InitialView(tr.Coins(), tr.Currencies()), cfg.Interval())
	if err != nil {
		_ = c.Close()
		log.Fatal().Err(err).Msg("init widget failed")
	}
	if err := widget.Run(g); err != nil {
		log.Error().Err(err).Msg("widget exited")
	}
}
