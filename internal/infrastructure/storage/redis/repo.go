package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

type Repo struct {
	rdb          *redis.Client
	prefix       string
	ttl          time.Duration
	keyLatest    string // prefix + ":latest"
	updateStream string
	updateChan   string
	now          func() time.Time
}

type LatestPrice struct {
	Ticker   string `json:"ticker"`
	Currency string `json:"currency"`
	Price    string `json:"price"`
	Ts       int64  `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, updateChan string) *Repo {
	if strings.TrimSpace(prefix) == "" {
		prefix = "pricewatch"
	}
	if strings.TrimSpace(updateChan) == "" {
		updateChan = prefix + ":updates:pub"
	}
	return &Repo{
		rdb:          rdb,
		prefix:       prefix,
		ttl:          ttl,
		keyLatest:    prefix + ":latest",
		updateStream: prefix + ":updates",
		updateChan:   updateChan,
		now:          time.Now,
	}
}

// Load 读取 Hash 中的全部记忆价格；key 不存在时返回空 baseline。
func (r *Repo) Load(ctx context.Context) (domain.Baseline, error) {
	fields, err := r.rdb.HGetAll(ctx, r.keyLatest).Result()
	if err != nil {
		return nil, err
	}

	b := domain.NewBaseline()
	for field, v := range fields {
		var lp LatestPrice
		if err := json.Unmarshal([]byte(v), &lp); err != nil {
			log.Warn().Err(err).Str("field", field).Msg("skip unreadable latest price")
			continue
		}
		p, err := decimal.NewFromString(lp.Price)
		if err != nil {
			log.Warn().Err(err).Str("field", field).Msg("skip unreadable latest price")
			continue
		}
		b.Set(lp.Ticker, lp.Currency, p)
	}
	return b, nil
}

func (r *Repo) Save(ctx context.Context, b domain.Baseline) error {
	entries := b.Entries()
	if len(entries) == 0 {
		return nil
	}
	ts := r.now().UnixMilli()

	// Hash: field = "BTC:usd" -> json
	pipe := r.rdb.Pipeline()
	for _, e := range entries {
		lp := LatestPrice{Ticker: e.Ticker, Currency: e.Currency, Price: e.Price.String(), Ts: ts}
		data, _ := json.Marshal(lp)
		pipe.HSet(ctx, r.keyLatest, fmt.Sprintf("%s:%s", e.Ticker, e.Currency), string(data))
	}
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) Name() string { return "redis" }

// Send 把一轮渲染结果写入 Stream 并通过 PubSub 广播
func (r *Repo) Send(ctx context.Context, text string) error {
	ts := r.now().UnixMilli()

	// 1) Stream: XADD <stream> * ts_ms text
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.updateStream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]any{
			"ts_ms": ts,
			"text":  text,
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> json
	msg, _ := json.Marshal(map[string]any{"ts_ms": ts, "text": text})
	return r.rdb.Publish(ctx, r.updateChan, string(msg)).Err()
}

// Close is a no-op: the client belongs to whoever created it.
func (r *Repo) Close() error { return nil }

var (
	_ port.SnapshotStore = (*Repo)(nil)
	_ port.Notifier      = (*Repo)(nil)
)
