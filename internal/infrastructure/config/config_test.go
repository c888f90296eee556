package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDiscordWebhook, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Interval() != 2*time.Minute {
		t.Errorf("expected 2m interval, got %v", cfg.Interval())
	}
	if cfg.APITimeout() != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.APITimeout())
	}
	coins := cfg.DomainCoins()
	if len(coins) != 3 || coins[0].Ticker != "BTC" {
		t.Errorf("unexpected default coins %+v", coins)
	}
	if got := cfg.DomainCurrencies(); len(got) != 2 || got[1].Symbol != "£" {
		t.Errorf("unexpected default currencies %+v", got)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("unexpected server addr %q", cfg.Server.Addr)
	}
}

func TestLoadTOML(t *testing.T) {
	t.Setenv(EnvDiscordWebhook, "")

	path := writeFile(t, "config.toml", `
[app]
interval_sec = 30

[coins]
list = [{ id = " Bitcoin ", ticker = "btc" }, { id = "bitcoin", ticker = "BTC" }]

[currencies]
list = ["USD", "eur", "usd"]

[storage.file]
enabled = true
path = "state/prices.json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Interval() != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.Interval())
	}
	if len(cfg.Coins.List) != 1 || cfg.Coins.List[0].ID != "bitcoin" || cfg.Coins.List[0].Ticker != "BTC" {
		t.Errorf("coins not normalized: %+v", cfg.Coins.List)
	}
	if len(cfg.Currencies.List) != 2 || cfg.Currencies.List[1] != "eur" {
		t.Errorf("currencies not normalized: %+v", cfg.Currencies.List)
	}
	if !cfg.Storage.File.Enabled || cfg.Storage.File.Path != "state/prices.json" {
		t.Errorf("file storage not decoded: %+v", cfg.Storage.File)
	}
	if cfg.PushInterval() != 30*time.Second {
		t.Errorf("push interval should default to app interval, got %v", cfg.PushInterval())
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvDiscordWebhook, "https://example.test/hook")

	path := writeFile(t, "config.yaml", `
app:
  interval_sec: 60
currencies:
  list: [gbp]
discord:
  webhook_url: https://ignored.test/hook
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.IntervalSec != 60 {
		t.Errorf("expected 60, got %d", cfg.App.IntervalSec)
	}
	if len(cfg.Currencies.List) != 1 || cfg.Currencies.List[0] != "gbp" {
		t.Errorf("unexpected currencies %+v", cfg.Currencies.List)
	}
	if cfg.Discord.WebhookURL != "https://example.test/hook" {
		t.Errorf("env override not applied, got %q", cfg.Discord.WebhookURL)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvDiscordWebhook, "")

	cases := map[string]string{
		"missing ticker": "[coins]\nlist = [{ id = \"bitcoin\" }]\n",
		"redis no addr":  "[storage.redis]\nenabled = true\n",
		"pg no dsn":      "[storage.postgres]\nenabled = true\n",
		"bad toml":       "[app\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, "config.toml", body)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
