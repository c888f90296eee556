package discord

import (
	"strings"

	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/domain"
)

// Markers 聊天消息使用的 emoji 方向标记
var Markers = domain.Markers{Up: "🟢↑", Down: "🔴↓", Flat: "⚪→", Unknown: "·"}

const FailureMessage = "❌ Failed to fetch prices."

// Compose renders one cycle as a single chat message.
func Compose(rep *tracker.Report) string {
	if !rep.OK() {
		return FailureMessage
	}

	lines := []string{
		"📊 **Crypto Prices Update**",
		"🕒 `" + rep.Timestamp() + "`",
		"",
	}

	for _, coin := range rep.Coins {
		parts := make([]string, 0, len(rep.Currencies))
		for _, cur := range rep.Currencies {
			q, ok := rep.Quote(coin.ID, cur.Code)
			if !ok || !q.Available {
				parts = append(parts, domain.NotAvailable)
				continue
			}
			parts = append(parts, q.Text+" "+Markers.For(q.Movement))
		}
		lines = append(lines, "**"+coin.Ticker+":** "+strings.Join(parts, " / "))
	}

	return strings.Join(lines, "\n")
}
