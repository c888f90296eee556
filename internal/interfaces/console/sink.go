package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/domain"
)

const (
	ansiReset       = "\033[0m"
	ansiRed         = "\033[91m"
	ansiGreen       = "\033[92m"
	ansiYellow      = "\033[93m"
	ansiDim         = "\033[2m"
	ansiClearScreen = "\033[H\033[2J"
)

func colorize(s, c string) string { return c + s + ansiReset }

func movementColor(m domain.Movement) string {
	switch m {
	case domain.MovementUp:
		return ansiGreen
	case domain.MovementDown:
		return ansiRed
	default:
		return ansiYellow
	}
}

// Dashboard 终端看板：每轮清屏后按法币分块打印
type Dashboard struct {
	out      io.Writer
	interval time.Duration
	markers  domain.Markers
	clear    bool
}

func NewDashboard(out io.Writer, interval time.Duration) *Dashboard {
	return &Dashboard{
		out:      out,
		interval: interval,
		markers:  domain.DefaultMarkers,
		clear:    true,
	}
}

// WithoutClear disables the clear-screen sequence (piped output).
func (d *Dashboard) WithoutClear() *Dashboard {
	d.clear = false
	return d
}

func (d *Dashboard) Render(rep *tracker.Report) string {
	var sb strings.Builder
	if d.clear {
		sb.WriteString(ansiClearScreen)
	}

	fmt.Fprintf(&sb, "[%s] Crypto Prices\n", rep.Timestamp())

	if !rep.OK() {
		sb.WriteString("\n")
		sb.WriteString(colorize("No data returned from API.", ansiRed))
		sb.WriteString("\n")
	} else {
		for _, cur := range rep.Currencies {
			fmt.Fprintf(&sb, "\n%s\n", strings.ToUpper(cur.Code))
			for _, q := range rep.ForCurrency(cur.Code) {
				sb.WriteString(d.line(q))
				sb.WriteString("\n")
			}
		}
	}

	if d.interval > 0 {
		sb.WriteString("\n")
		sb.WriteString(colorize(fmt.Sprintf("Updating again in %s... (Ctrl+C to quit)", d.interval), ansiDim))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *Dashboard) line(q tracker.Quote) string {
	ticker := q.Pair.Coin.Ticker + ": "
	if !q.Available {
		return ticker + colorize(domain.NotAvailable, ansiRed)
	}
	return ticker + colorize(q.Text+" "+d.markers.For(q.Movement), movementColor(q.Movement))
}

func (d *Dashboard) Write(rep *tracker.Report) error {
	_, err := io.WriteString(d.out, d.Render(rep))
	return err
}

func (d *Dashboard) Goodbye() error {
	_, err := io.WriteString(d.out, "\nExiting... bye!\n")
	return err
}
