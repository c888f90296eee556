package widget

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"pricewatch/internal/application/usecase/tracker"
)

const (
	Width  = 360
	Height = 300
)

var (
	colorBG      = color.RGBA{0x18, 0x18, 0x18, 0xff}
	colorText    = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorUp      = color.RGBA{0x7c, 0xff, 0xb2, 0xff}
	colorDown    = color.RGBA{0xff, 0x8a, 0x8a, 0xff}
	colorNeutral = color.RGBA{0xc8, 0xc8, 0xc8, 0xff}
)

func toneColor(t Tone) color.Color {
	switch t {
	case ToneText:
		return colorText
	case ToneUp:
		return colorUp
	case ToneDown:
		return colorDown
	default:
		return colorNeutral
	}
}

// Cycler runs one fetch-compare cycle. *tracker.Tracker satisfies it.
type Cycler interface {
	Cycle(ctx context.Context) *tracker.Report
}

type faces struct {
	title   text.Face
	section text.Face
	label   text.Face
}

func loadFaces() (faces, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return faces{}, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return faces{}, fmt.Errorf("load bold font: %w", err)
	}
	return faces{
		title:   &text.GoTextFace{Source: bold, Size: 18},
		section: &text.GoTextFace{Source: bold, Size: 15},
		label:   &text.GoTextFace{Source: regular, Size: 13},
	}, nil
}

// Game 实现 ebiten.Game。Update 按间隔在后台启动一轮取价，同一时刻最多一轮。
type Game struct {
	ctx      context.Context
	tracker  Cycler
	interval time.Duration
	faces    faces

	inFlight  atomic.Bool
	lastStart time.Time

	mu   sync.Mutex
	view View
}

func NewGame(ctx context.Context, t Cycler, initial View, interval time.Duration) (*Game, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &Game{
		ctx:      ctx,
		tracker:  t,
		interval: interval,
		faces:    f,
		view:     initial,
	}, nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	now := time.Now()
	if !g.lastStart.IsZero() && now.Sub(g.lastStart) < g.interval {
		return nil
	}
	if !g.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	g.lastStart = now
	go g.refresh()
	return nil
}

func (g *Game) refresh() {
	defer g.inFlight.Store(false)

	rep := g.tracker.Cycle(g.ctx)

	g.mu.Lock()
	g.view = BuildView(g.view, rep)
	g.mu.Unlock()

	log.Debug().Str("cycle", rep.ID).Bool("fetch_ok", rep.OK()).Msg("widget refreshed")
}

// Snapshot returns the current view.
func (g *Game) Snapshot() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view
}

func (g *Game) drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, c color.Color) float64 {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
	_, h := text.Measure(s, face, 0)
	return h
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	v := g.Snapshot()

	tw, th := text.Measure(Title, g.faces.title, 0)
	y := 10.0
	g.drawText(screen, Title, g.faces.title, (Width-tw)/2, y, colorText)
	y += th + 5

	sw, _ := text.Measure(v.Status, g.faces.label, 0)
	y += g.drawText(screen, v.Status, g.faces.label, (Width-sw)/2, y, toneColor(v.StatusTone)) + 8
	vector.StrokeLine(screen, 20, float32(y), Width-20, float32(y), 1, colorNeutral, false)
	y += 8

	for i, sec := range v.Sections {
		if i > 0 {
			y += 10
		}
		y += g.drawText(screen, sec.Title, g.faces.section, 20, y, colorText) + 3
		for _, row := range sec.Rows {
			g.drawText(screen, row.Label, g.faces.label, 20, y, colorText)
			h := g.drawText(screen, row.Price, g.faces.label, 70, y, toneColor(row.Tone))
			y += h + 1
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return Width, Height
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(g *Game) error {
	ebiten.SetWindowSize(Width, Height)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run widget: %w", err)
	}
	return nil
}
