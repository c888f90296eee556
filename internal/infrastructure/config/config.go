package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pricewatch/internal/domain"
)

// EnvDiscordWebhook overrides discord.webhook_url so the secret can stay out of the config file.
const EnvDiscordWebhook = "PRICEWATCH_DISCORD_WEBHOOK"

type CoinConfig struct {
	ID     string `toml:"id" yaml:"id"`
	Ticker string `toml:"ticker" yaml:"ticker"`
}

type Config struct {
	App struct {
		IntervalSec int    `toml:"interval_sec" yaml:"interval_sec"`
		LogLevel    string `toml:"log_level" yaml:"log_level"`
	} `toml:"app" yaml:"app"`

	Coins struct {
		List []CoinConfig `toml:"list" yaml:"list"`
	} `toml:"coins" yaml:"coins"`

	Currencies struct {
		List []string `toml:"list" yaml:"list"`
	} `toml:"currencies" yaml:"currencies"`

	API struct {
		BaseURL    string `toml:"base_url" yaml:"base_url"`
		TimeoutSec int    `toml:"timeout_sec" yaml:"timeout_sec"`
		APIKey     string `toml:"api_key" yaml:"api_key"`
	} `toml:"api" yaml:"api"`

	Discord struct {
		WebhookURL string `toml:"webhook_url" yaml:"webhook_url"`
		TimeoutSec int    `toml:"timeout_sec" yaml:"timeout_sec"`
	} `toml:"discord" yaml:"discord"`

	Server struct {
		Addr            string `toml:"addr" yaml:"addr"`
		PushIntervalSec int    `toml:"push_interval_sec" yaml:"push_interval_sec"`
	} `toml:"server" yaml:"server"`

	Storage struct {
		File struct {
			Enabled bool   `toml:"enabled" yaml:"enabled"`
			Path    string `toml:"path" yaml:"path"`
		} `toml:"file" yaml:"file"`

		SQLite struct {
			Enabled bool   `toml:"enabled" yaml:"enabled"`
			Path    string `toml:"path" yaml:"path"`
		} `toml:"sqlite" yaml:"sqlite"`

		Redis struct {
			Enabled    bool   `toml:"enabled" yaml:"enabled"`
			Addr       string `toml:"addr" yaml:"addr"`
			Password   string `toml:"password" yaml:"password"`
			DB         int    `toml:"db" yaml:"db"`
			Prefix     string `toml:"prefix" yaml:"prefix"`
			TTLSeconds int    `toml:"ttl_seconds" yaml:"ttl_seconds"`
			Channel    string `toml:"channel" yaml:"channel"`
			Publish    bool   `toml:"publish" yaml:"publish"`
		} `toml:"redis" yaml:"redis"`

		Postgres struct {
			Enabled bool   `toml:"enabled" yaml:"enabled"`
			DSN     string `toml:"dsn" yaml:"dsn"`
		} `toml:"postgres" yaml:"postgres"`
	} `toml:"storage" yaml:"storage"`
}

// Load 读取配置文件（.toml 或 .yaml/.yml），文件不存在时使用默认配置
func Load(path string) (*Config, error) {
	var cfg Config
	if err := decodeFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	_ = validate(&cfg)
	return &cfg
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return yaml.NewDecoder(f).Decode(cfg)
	default:
		_, err := toml.DecodeFile(path, cfg)
		return err
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDiscordWebhook)); v != "" {
		cfg.Discord.WebhookURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.IntervalSec <= 0 {
		cfg.App.IntervalSec = 120
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if len(cfg.Coins.List) == 0 {
		for _, c := range domain.DefaultCoins {
			cfg.Coins.List = append(cfg.Coins.List, CoinConfig{ID: c.ID, Ticker: c.Ticker})
		}
	}
	if len(cfg.Currencies.List) == 0 {
		cfg.Currencies.List = append([]string(nil), domain.DefaultCurrencyCodes...)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.coingecko.com"
	}
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 10
	}
	if cfg.Discord.TimeoutSec <= 0 {
		cfg.Discord.TimeoutSec = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.PushIntervalSec <= 0 {
		cfg.Server.PushIntervalSec = cfg.App.IntervalSec
	}
	if cfg.Storage.File.Path == "" {
		cfg.Storage.File.Path = "last_prices.json"
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/pricewatch.db"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "pricewatch"
	}
}

func validate(cfg *Config) error {
	coins, err := normalizeCoins(cfg.Coins.List)
	if err != nil {
		return err
	}
	cfg.Coins.List = coins
	if len(cfg.Coins.List) == 0 {
		return errors.New("coins.list is empty")
	}

	cfg.Currencies.List = normalizeCodes(cfg.Currencies.List)
	if len(cfg.Currencies.List) == 0 {
		return errors.New("currencies.list is empty")
	}

	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	return nil
}

func normalizeCoins(in []CoinConfig) ([]CoinConfig, error) {
	out := make([]CoinConfig, 0, len(in))
	seen := map[string]struct{}{}
	for _, c := range in {
		id := strings.ToLower(strings.TrimSpace(c.ID))
		if id == "" {
			continue
		}
		ticker := domain.NormalizeTicker(c.Ticker)
		if ticker == "" {
			return nil, fmt.Errorf("coin %q has no ticker", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, CoinConfig{ID: id, Ticker: ticker})
	}
	return out, nil
}

func normalizeCodes(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		c := domain.NormalizeCode(s)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.App.IntervalSec) * time.Second
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

func (c *Config) DiscordTimeout() time.Duration {
	return time.Duration(c.Discord.TimeoutSec) * time.Second
}

func (c *Config) PushInterval() time.Duration {
	return time.Duration(c.Server.PushIntervalSec) * time.Second
}

func (c *Config) DomainCoins() []domain.Coin {
	out := make([]domain.Coin, 0, len(c.Coins.List))
	for _, cc := range c.Coins.List {
		out = append(out, domain.Coin{ID: cc.ID, Ticker: cc.Ticker})
	}
	return out
}

func (c *Config) DomainCurrencies() []domain.Currency {
	return domain.NewCurrencies(c.Currencies.List)
}
