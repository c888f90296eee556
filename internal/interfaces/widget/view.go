package widget

import (
	"strings"

	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/domain"
)

// Tone 决定一段文字的颜色
type Tone int

const (
	ToneNeutral Tone = iota
	ToneText
	ToneUp
	ToneDown
)

const (
	Title       = "Crypto Prices"
	placeholder = "—"
	apiError    = "• API ERROR"
)

type Row struct {
	Label string // "BTC:"
	Price string // "$86,000.00 ↑"
	Tone  Tone
}

type Section struct {
	Title string // "USD"
	Rows  []Row
}

// View 是窗口的全部内容，Draw 只负责把它画出来
type View struct {
	Status     string
	StatusTone Tone
	Sections   []Section
}

// InitialView is shown before the first cycle finishes.
func InitialView(coins []domain.Coin, currencies []domain.Currency) View {
	v := View{Status: "Updating...", StatusTone: ToneNeutral}
	for _, cur := range currencies {
		sec := Section{Title: strings.ToUpper(cur.Code)}
		for _, c := range coins {
			sec.Rows = append(sec.Rows, Row{Label: c.Ticker + ":", Price: placeholder, Tone: ToneNeutral})
		}
		v.Sections = append(v.Sections, sec)
	}
	return v
}

func toneFor(m domain.Movement) Tone {
	switch m {
	case domain.MovementUp:
		return ToneUp
	case domain.MovementDown:
		return ToneDown
	default:
		return ToneNeutral
	}
}

// BuildView 根据本轮结果生成新画面。
// 取价失败时保留上一次的价格行，只把状态行改成红色的 API ERROR。
func BuildView(prev View, rep *tracker.Report) View {
	if !rep.OK() {
		next := View{
			Status:     rep.Timestamp() + " " + apiError,
			StatusTone: ToneDown,
			Sections:   prev.Sections,
		}
		if next.Sections == nil {
			next.Sections = InitialView(rep.Coins, rep.Currencies).Sections
		}
		return next
	}

	v := View{Status: "Last updated: " + rep.Timestamp(), StatusTone: ToneNeutral}
	for _, cur := range rep.Currencies {
		sec := Section{Title: strings.ToUpper(cur.Code)}
		for _, q := range rep.ForCurrency(cur.Code) {
			row := Row{Label: q.Pair.Coin.Ticker + ":", Price: domain.NotAvailable, Tone: ToneNeutral}
			if q.Available {
				row.Price = q.Text + " " + domain.DefaultMarkers.For(q.Movement)
				row.Tone = toneFor(q.Movement)
			}
			sec.Rows = append(sec.Rows, row)
		}
		v.Sections = append(v.Sections, sec)
	}
	return v
}
