package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Snapshot is the set of prices returned by one fetch: coin ID -> currency code -> price.
// A pair may be absent.
type Snapshot map[string]map[string]decimal.Decimal

func (s Snapshot) Price(p Pair) (decimal.Decimal, bool) {
	byCur, ok := s[p.Coin.ID]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := byCur[p.Currency.Code]
	return price, ok
}

// Baseline 记忆价格：ticker -> currency code -> 上一次观测到的价格。
// 只保留一步，没有历史。
type Baseline map[string]map[string]decimal.Decimal

// BaselineEntry is one remembered price.
type BaselineEntry struct {
	Ticker   string
	Currency string
	Price    decimal.Decimal
}

func NewBaseline() Baseline { return make(Baseline) }

func (b Baseline) Get(ticker, code string) (decimal.Decimal, bool) {
	byCur, ok := b[NormalizeTicker(ticker)]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := byCur[NormalizeCode(code)]
	return price, ok
}

func (b Baseline) Set(ticker, code string, price decimal.Decimal) {
	t := NormalizeTicker(ticker)
	byCur, ok := b[t]
	if !ok {
		byCur = make(map[string]decimal.Decimal)
		b[t] = byCur
	}
	byCur[NormalizeCode(code)] = price
}

func (b Baseline) Len() int {
	n := 0
	for _, byCur := range b {
		n += len(byCur)
	}
	return n
}

// Entries returns all remembered prices sorted by ticker then currency.
func (b Baseline) Entries() []BaselineEntry {
	out := make([]BaselineEntry, 0, b.Len())
	for t, byCur := range b {
		for c, p := range byCur {
			out = append(out, BaselineEntry{Ticker: t, Currency: c, Price: p})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}

func (b Baseline) Clone() Baseline {
	out := make(Baseline, len(b))
	for t, byCur := range b {
		cp := make(map[string]decimal.Decimal, len(byCur))
		for c, p := range byCur {
			cp[c] = p
		}
		out[t] = cp
	}
	return out
}
