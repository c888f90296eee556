package domain

import "strings"

// Coin CoinGecko 币种 ID 与展示用 ticker
type Coin struct {
	ID     string // "bitcoin"
	Ticker string // "BTC"
}

// Currency 计价法币
type Currency struct {
	Code   string // "usd"
	Symbol string // "$"
}

// Pair 一个 (币种, 法币) 组合
type Pair struct {
	Coin     Coin
	Currency Currency
}

func (p Pair) Key() string {
	return p.Coin.Ticker + ":" + p.Currency.Code
}

var DefaultCoins = []Coin{
	{ID: "bitcoin", Ticker: "BTC"},
	{ID: "ethereum", Ticker: "ETH"},
	{ID: "solana", Ticker: "SOL"},
}

var DefaultCurrencyCodes = []string{"usd", "gbp"}

var currencySymbols = map[string]string{
	"usd": "$",
	"gbp": "£",
	"eur": "€",
	"jpy": "¥",
}

// NewCurrency 根据货币代码构造 Currency，未知代码使用大写代码加空格作为符号
func NewCurrency(code string) Currency {
	c := NormalizeCode(code)
	sym, ok := currencySymbols[c]
	if !ok {
		sym = strings.ToUpper(c) + " "
	}
	return Currency{Code: c, Symbol: sym}
}

func NewCurrencies(codes []string) []Currency {
	out := make([]Currency, 0, len(codes))
	for _, c := range codes {
		out = append(out, NewCurrency(c))
	}
	return out
}

// Pairs 按币种优先的顺序展开所有组合
func Pairs(coins []Coin, currencies []Currency) []Pair {
	out := make([]Pair, 0, len(coins)*len(currencies))
	for _, coin := range coins {
		for _, cur := range currencies {
			out = append(out, Pair{Coin: coin, Currency: cur})
		}
	}
	return out
}

func NormalizeTicker(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func NormalizeCode(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
