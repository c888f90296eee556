package domain

import "github.com/shopspring/decimal"

// Movement represents the price movement direction against the remembered price
type Movement int

const (
	MovementUnknown Movement = iota
	MovementUp
	MovementDown
	MovementFlat
)

func (m Movement) String() string {
	switch m {
	case MovementUp:
		return "up"
	case MovementDown:
		return "down"
	case MovementFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// Compare 比较当前价格与记忆价格。没有记忆价格时返回 Unknown。
// 使用 decimal 精确比较，Flat 不会因为浮点舍入而误判。
func Compare(current, remembered decimal.Decimal, ok bool) Movement {
	if !ok {
		return MovementUnknown
	}
	switch current.Cmp(remembered) {
	case 1:
		return MovementUp
	case -1:
		return MovementDown
	default:
		return MovementFlat
	}
}

// Markers holds one display marker per Movement. Every presenter picks its own set.
type Markers struct {
	Up      string
	Down    string
	Flat    string
	Unknown string
}

var DefaultMarkers = Markers{Up: "↑", Down: "↓", Flat: "→", Unknown: "·"}

func (mk Markers) For(m Movement) string {
	switch m {
	case MovementUp:
		return mk.Up
	case MovementDown:
		return mk.Down
	case MovementFlat:
		return mk.Flat
	default:
		return mk.Unknown
	}
}
