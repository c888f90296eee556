package domain

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const NotAvailable = "N/A"

// FormatAmount 千分位 + 固定两位小数，例如 86000 -> "86,000.00"
func FormatAmount(price decimal.Decimal) string {
	r := price.Round(2)
	fixed := r.Abs().StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.'):]

	intPart := humanize.Comma(r.Abs().IntPart())
	if r.Sign() < 0 {
		return "-" + intPart + frac
	}
	return intPart + frac
}

// FormatPrice prefixes the amount with the currency symbol: "$86,000.00", "£1,234.50".
func FormatPrice(cur Currency, price decimal.Decimal) string {
	return cur.Symbol + FormatAmount(price)
}
