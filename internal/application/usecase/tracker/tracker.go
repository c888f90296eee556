package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

type Deps struct {
	Fetcher    port.PriceFetcher
	Store      port.SnapshotStore
	Coins      []domain.Coin
	Currencies []domain.Currency
	Now        func() time.Time
}

// Tracker 一个展示端独享的 "取价 -> 比较 -> 格式化" 核心。
// 记忆价格只通过 Store 保存，Tracker 本身不持有跨轮状态。
type Tracker struct {
	deps  Deps
	pairs []domain.Pair
}

func New(deps Deps) *Tracker {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Tracker{
		deps:  deps,
		pairs: domain.Pairs(deps.Coins, deps.Currencies),
	}
}

func (t *Tracker) Coins() []domain.Coin          { return t.deps.Coins }
func (t *Tracker) Currencies() []domain.Currency { return t.deps.Currencies }

// Cycle fetches one snapshot and applies it.
func (t *Tracker) Cycle(ctx context.Context) *Report {
	snap, err := t.deps.Fetcher.Fetch(ctx, t.deps.Coins, t.deps.Currencies)
	return t.Apply(ctx, snap, err)
}

// Apply 把一次取价结果与记忆价格比较并生成报告。
// 取价失败时所有组合都是 N/A，且不读写 Store。
func (t *Tracker) Apply(ctx context.Context, snap domain.Snapshot, fetchErr error) *Report {
	rep := newReport(t.deps.Now(), t.deps.Coins, t.deps.Currencies)

	if fetchErr != nil {
		rep.FetchErr = fetchErr
		for _, p := range t.pairs {
			rep.Quotes = append(rep.Quotes, Quote{Pair: p})
		}
		log.Warn().Err(fetchErr).Str("cycle", rep.ID).Msg("price fetch failed")
		return rep
	}

	base, err := t.deps.Store.Load(ctx)
	if err != nil {
		rep.StoreErr = err
		log.Warn().Err(err).Str("cycle", rep.ID).Msg("load remembered prices failed, movements fall back to unknown")
	}
	if base == nil || err != nil {
		base = domain.NewBaseline()
	}

	observed := 0
	for _, p := range t.pairs {
		price, ok := snap.Price(p)
		if !ok {
			rep.Quotes = append(rep.Quotes, Quote{Pair: p})
			log.Debug().Str("cycle", rep.ID).Str("pair", p.Key()).Msg("pair missing from snapshot")
			continue
		}
		mv := Observe(base, p, price)
		observed++
		rep.Quotes = append(rep.Quotes, Quote{
			Pair:      p,
			Price:     price,
			Available: true,
			Movement:  mv,
			Text:      domain.FormatPrice(p.Currency, price),
		})
	}

	// 读取失败时 base 不完整，写回会覆盖掉本轮缺失组合的记忆价格
	if observed > 0 && rep.StoreErr == nil {
		if err := t.deps.Store.Save(ctx, base); err != nil {
			rep.StoreErr = err
			log.Warn().Err(err).Str("cycle", rep.ID).Msg("save remembered prices failed")
		}
	}

	log.Debug().Str("cycle", rep.ID).Int("observed", observed).Int("pairs", len(t.pairs)).Msg("cycle applied")
	return rep
}

// Observe compares price against the remembered value for p and then remembers price,
// whatever the outcome.
func Observe(b domain.Baseline, p domain.Pair, price decimal.Decimal) domain.Movement {
	prev, ok := b.Get(p.Coin.Ticker, p.Currency.Code)
	mv := domain.Compare(price, prev, ok)
	b.Set(p.Coin.Ticker, p.Currency.Code, price)
	return mv
}
