package httpapi

import (
	"encoding/json"

	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/domain"
)

// PricesPayload is the body of GET /api/prices and of every /ws push.
type PricesPayload struct {
	Updated string                    `json:"updated"`
	Prices  map[string]map[string]any `json:"prices,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// FetchFailedMessage 取价失败时返回给客户端的错误文本
const FetchFailedMessage = "failed to fetch prices"

// BuildPayload 把一轮结果转成 JSON 结构。每个 ticker 下：
// 各币种价格（不可用为 null）、首个币种的箭头 arrow、全部箭头 arrows、格式化文本 text。
func BuildPayload(rep *tracker.Report, mk domain.Markers) PricesPayload {
	out := PricesPayload{Updated: rep.Timestamp()}
	if !rep.OK() {
		out.Error = FetchFailedMessage
		return out
	}

	out.Prices = make(map[string]map[string]any, len(rep.Coins))
	for _, coin := range rep.Coins {
		entry := make(map[string]any, len(rep.Currencies)+3)
		arrows := make(map[string]string, len(rep.Currencies))
		texts := make(map[string]string, len(rep.Currencies))

		for i, cur := range rep.Currencies {
			q, ok := rep.Quote(coin.ID, cur.Code)
			if !ok || !q.Available {
				entry[cur.Code] = nil
				arrows[cur.Code] = mk.For(domain.MovementUnknown)
				texts[cur.Code] = domain.NotAvailable
			} else {
				entry[cur.Code] = json.Number(q.Price.String())
				arrows[cur.Code] = mk.For(q.Movement)
				texts[cur.Code] = q.Text
			}
			if i == 0 {
				entry["arrow"] = arrows[cur.Code]
			}
		}
		entry["arrows"] = arrows
		entry["text"] = texts
		out.Prices[coin.Ticker] = entry
	}
	return out
}
