//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image/color"

	"dhtpanel/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the simulator window.
type WindowConfig struct {
	Host  HostConfig
	Scale int
}

var (
	panelOn  = color.RGBA{R: 0x9f, G: 0xe8, B: 0xff, A: 0xff}
	panelOff = color.RGBA{R: 0x05, G: 0x08, B: 0x10, A: 0xff}
)

// RunWindow starts a desktop window that mirrors the panel while run executes
// in the background. It blocks until the window closes or run fails.
func RunWindow(run func(context.Context, HAL) error, cfg WindowConfig) error {
	if run == nil {
		return errors.New("window: nil run func")
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	h := NewHost(cfg.Host).(*hostHAL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	g := &hostGame{h: h, done: done}
	ebiten.SetWindowTitle("dhtpanel (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(30)
	err := ebiten.RunGame(g)
	cancel()
	if errors.Is(err, errRunFinished) {
		return g.runErr
	}
	return err
}

var errRunFinished = errors.New("window: run finished")

type hostGame struct {
	h      *hostHAL
	done   <-chan error
	runErr error

	img     *ebiten.Image
	pix     []byte
	scratch []byte
	seen    uint64
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.runErr = err
		return errRunFinished
	default:
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = ebiten.NewImage(fb.width, fb.height)
		g.pix = make([]byte, fb.width*fb.height*4)
		g.scratch = make([]byte, len(fb.shown))
		g.seen = ^uint64(0)
	}

	if n := fb.snapshot(g.scratch); n != g.seen {
		g.seen = n
		for y := 0; y < fb.height; y++ {
			for x := 0; x < fb.width; x++ {
				c := panelOff
				if g.scratch[y*fb.stride+x/8]&(0x80>>uint(x%8)) != 0 {
					c = panelOn
				}
				j := (y*fb.width + x) * 4
				g.pix[j+0] = c.R
				g.pix[j+1] = c.G
				g.pix[j+2] = c.B
				g.pix[j+3] = c.A
			}
		}
		g.img.WritePixels(g.pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
