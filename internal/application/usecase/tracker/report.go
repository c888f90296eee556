package tracker

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pricewatch/internal/domain"
)

// TimeLayout is the timestamp format every presenter shows.
const TimeLayout = "2006-01-02 15:04:05"

// Quote 单个组合在本轮的结果
type Quote struct {
	Pair      domain.Pair
	Price     decimal.Decimal
	Available bool
	Movement  domain.Movement
	Text      string // "$86,000.00"，不可用时为空
}

// PriceText returns the formatted price, or N/A.
func (q Quote) PriceText() string {
	if !q.Available {
		return domain.NotAvailable
	}
	return q.Text
}

// Line renders "BTC: $100.00 ·" or "BTC: N/A".
func (q Quote) Line(mk domain.Markers) string {
	if !q.Available {
		return q.Pair.Coin.Ticker + ": " + domain.NotAvailable
	}
	return q.Pair.Coin.Ticker + ": " + q.Text + " " + mk.For(q.Movement)
}

// Report is the output of one cycle.
type Report struct {
	ID         string
	At         time.Time
	Coins      []domain.Coin
	Currencies []domain.Currency
	Quotes     []Quote
	FetchErr   error
	StoreErr   error
}

func newReport(at time.Time, coins []domain.Coin, currencies []domain.Currency) *Report {
	return &Report{
		ID:         uuid.NewString(),
		At:         at,
		Coins:      coins,
		Currencies: currencies,
		Quotes:     make([]Quote, 0, len(coins)*len(currencies)),
	}
}

// OK reports whether the fetch succeeded. Store errors do not count.
func (r *Report) OK() bool { return r.FetchErr == nil }

func (r *Report) Timestamp() string { return r.At.Format(TimeLayout) }

func (r *Report) Quote(coinID, code string) (Quote, bool) {
	code = domain.NormalizeCode(code)
	for _, q := range r.Quotes {
		if q.Pair.Coin.ID == coinID && q.Pair.Currency.Code == code {
			return q, true
		}
	}
	return Quote{}, false
}

// ForCurrency returns the quotes of one currency in coin order.
func (r *Report) ForCurrency(code string) []Quote {
	code = domain.NormalizeCode(code)
	out := make([]Quote, 0, len(r.Coins))
	for _, q := range r.Quotes {
		if q.Pair.Currency.Code == code {
			out = append(out, q)
		}
	}
	return out
}
