package main

import (
	"context"
	"errors"
	"testing"

	"pricewatch/internal/application/port"
	"pricewatch/internal/infrastructure/config"
)

type stubNotifier struct{}

func (stubNotifier) Name() string { return "stub" }
func (stubNotifier) Send(ctx context.Context, text string) error { return nil }

func TestDeliveryTargetsNone(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.WebhookURL = ""

	if _, err := deliveryTargets(cfg, nil); !errors.Is(err, errNoTargets) {
		t.Errorf("expected errNoTargets, got %v", err)
	}
}

func TestDeliveryTargetsOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.WebhookURL = "http://127.0.0.1/hook"

	got, err := deliveryTargets(cfg, []port.Notifier{stubNotifier{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name() != "discord" || got[1].Name() != "stub" {
		t.Errorf("unexpected targets %v", got)
	}
}
