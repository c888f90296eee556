package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"pricewatch/internal/application/port"
	"pricewatch/internal/application/usecase/notify"
	"pricewatch/internal/application/usecase/poller"
	"pricewatch/internal/infrastructure/config"
	"pricewatch/internal/infrastructure/container"
	"pricewatch/internal/infrastructure/logger"
	"pricewatch/internal/interfaces/discord"
)

var errNoTargets = errors.New("no delivery target enabled")

// deliveryTargets 返回 Discord webhook（若已配置）加上容器提供的其他目标
func deliveryTargets(cfg *config.Config, extra []port.Notifier) ([]port.Notifier, error) {
	var out []port.Notifier
	if cfg.Discord.WebhookURL != "" {
		out = append(out, discord.NewWebhook(cfg.Discord.WebhookURL, cfg.DiscordTimeout()))
	} else {
		log.Warn().Str("env", config.EnvDiscordWebhook).Msg("discord webhook not configured")
	}
	out = append(out, extra...)
	if len(out) == 0 {
		return nil, errNoTargets
	}
	return out, nil
}

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

	notifiers, err := deliveryTargets(cfg, c.Notifiers())
	if err != nil {
		_ = c.Close()
		log.Fatal().Err(err).Msg("notifier setup failed")
	}

	svc := notify.NewService(notify.ServiceDeps{
		Tracker:   c.NewTracker(),
		Compose:   discord.Compose,
		Notifiers: notifiers,
	})

	log.Info().
		Str("config", *configPath).
		Int("targets", len(notifiers)).
		Dur("interval", cfg.Interval()).
		Msg("notifier started")

	err = poller.Run(ctx, cfg.Interval(), func(ctx context.Context) {
		svc.RunOnce(ctx)
	})
	log.Info().Err(err).Msg("notifier stopped")
}
