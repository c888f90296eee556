package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pricewatch/internal/application/port"
	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/infrastructure/coingecko"
	"pricewatch/internal/infrastructure/config"
	"pricewatch/internal/infrastructure/storage/composite"
	"pricewatch/internal/infrastructure/storage/jsonfile"
	"pricewatch/internal/infrastructure/storage/memory"
	pgrepo "pricewatch/internal/infrastructure/storage/postgres"
	redisrepo "pricewatch/internal/infrastructure/storage/redis"
	sqliterepo "pricewatch/internal/infrastructure/storage/sqlite"
)

// ErrStorageInitFailed 存储初始化失败
var ErrStorageInitFailed = errors.New("storage initialization failed")

// Container 包含一个展示端实例的所有依赖
type Container struct {
	cfg         *config.Config
	fetcher     *coingecko.Client
	store       port.SnapshotStore
	redisClient *redis.Client
	redisRepo   *redisrepo.Repo
	closeOnce   sync.Once
	closerChain []func() error
}

// New 创建新的容器实例。没有启用任何持久化存储时使用内存存储。
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg:         cfg,
		fetcher:     coingecko.NewClient(cfg.API.BaseURL, cfg.APITimeout()).WithAPIKey(cfg.API.APIKey),
		closerChain: make([]func() error, 0),
	}

	if err := c.initStorage(); err != nil {
		// 清理已初始化的资源
		_ = c.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}
	return c, nil
}

// initStorage 按 file -> sqlite -> redis -> postgres 的顺序初始化，第一个为主存储
func (c *Container) initStorage() error {
	var stores []port.SnapshotStore
	var names []string

	if c.cfg.Storage.File.Enabled {
		stores = append(stores, jsonfile.New(c.cfg.Storage.File.Path))
		names = append(names, "file")
	}

	if c.cfg.Storage.SQLite.Enabled {
		repo, err := sqliterepo.New(c.cfg.Storage.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite init failed: %w", err)
		}
		c.closerChain = append(c.closerChain, func() error {
			log.Info().Msg("closing sqlite connection")
			return repo.Close()
		})
		stores = append(stores, repo)
		names = append(names, "sqlite")
		log.Info().Str("path", c.cfg.Storage.SQLite.Path).Msg("sqlite initialized")
	}

	if c.cfg.Storage.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
		stores = append(stores, c.redisRepo)
		names = append(names, "redis")
	}

	if c.cfg.Storage.Postgres.Enabled {
		repo, err := pgrepo.New(c.cfg.Storage.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres init failed: %w", err)
		}
		c.closerChain = append(c.closerChain, func() error {
			log.Info().Msg("closing postgres connection")
			return repo.Close()
		})
		stores = append(stores, repo)
		names = append(names, "postgres")
		log.Info().Msg("postgres initialized")
	}

	switch len(stores) {
	case 0:
		c.store = memory.New()
		names = append(names, "memory")
	case 1:
		c.store = stores[0]
	default:
		c.store = composite.New(stores...)
	}

	log.Info().Strs("stores", names).Msg("snapshot store ready")
	return nil
}

// initRedis 初始化 Redis 连接
func (c *Container) initRedis() error {
	rc := c.cfg.Storage.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.redisClient = rdb
	c.redisRepo = redisrepo.New(rdb, rc.Prefix, time.Duration(rc.TTLSeconds)*time.Second, rc.Channel)

	// 注册关闭回调
	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", rc.Addr).
		Int("db", rc.DB).
		Msg("redis initialized")

	return nil
}

// Config 获取配置
func (c *Container) Config() *config.Config {
	return c.cfg
}

func (c *Container) Fetcher() port.PriceFetcher {
	return c.fetcher
}

func (c *Container) Store() port.SnapshotStore {
	return c.store
}

// Notifiers returns the extra delivery targets enabled by config (redis publish).
func (c *Container) Notifiers() []port.Notifier {
	var out []port.Notifier
	if c.redisRepo != nil && c.cfg.Storage.Redis.Publish {
		out = append(out, c.redisRepo)
	}
	return out
}

// NewTracker builds a tracker bound to this container's fetcher and store.
func (c *Container) NewTracker() *tracker.Tracker {
	return tracker.New(tracker.Deps{
		Fetcher:    c.fetcher,
		Store:      c.store,
		Coins:      c.cfg.DomainCoins(),
		Currencies: c.cfg.DomainCurrencies(),
	})
}

// Close 关闭所有资源（按后进先出顺序）
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if e := c.closerChain[i](); e != nil {
				log.Error().Err(e).Msg("error closing resource")
				if err == nil {
					err = e
				}
			}
		}
		log.Info().Msg("container closed")
	})
	return err
}
