package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"pricewatch/internal/application/usecase/poller"
	"pricewatch/internal/infrastructure/config"
	"pricewatch/internal/infrastructure/container"
	"pricewatch/internal/infrastructure/logger"
	"pricewatch/internal/interfaces/console"
)

func main() {
	// stdout 留给看板
	logger.SetupWith("info", os.Stderr)

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.SetupWith(cfg.App.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init container failed")
	}
	defer c.Close()

	tr := c.NewTracker()
	dash := console.NewDashboard(os.Stdout, cfg.Interval())

	log.Info().
		Str("config", *configPath).
		Int("coins", len(tr.Coins())).
		Dur("interval", cfg.Interval()).
		Msg("pricewatch started")

	err = poller.Run(ctx, cfg.Interval(), func(ctx context.Context) {
		if werr := dash.Write(tr.Cycle(ctx)); werr != nil {
			log.Error().Err(werr).Msg("render dashboard failed")
		}
	})
	_ = dash.Goodbye()
	log.Info().Err(err).Msg("pricewatch stopped")
}
