package liveplot

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stop is returned from a Show step callback to close the window cleanly.
var Stop = errors.New("liveplot: stop")

// frameSource is what the window needs from a figure. Plot and Heatmap
// both satisfy it.
type frameSource interface {
	Frame() *image.RGBA
	Size() (width, height int)
}

var (
	_ frameSource = (*Plot)(nil)
	_ frameSource = (*Heatmap)(nil)
	_ ebiten.Game = (*game)(nil)
)

// game displays a figure's frames in an ebiten window. Each display tick
// first runs the step callback (which owns all figure access), then Draw
// copies the current frame to the screen, so the figure is only ever
// touched from the game loop goroutine.
type game struct {
	src  frameSource
	step func() error
	img  *ebiten.Image
}

func (g *game) Update() error {
	if g.step == nil {
		return nil
	}
	if err := g.step(); err != nil {
		if errors.Is(err, errShutdown) || errors.Is(err, Stop) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame := g.src.Frame()
	if frame == nil {
		return
	}
	if g.img == nil {
		w, h := g.src.Size()
		g.img = ebiten.NewImage(w, h)
	}
	g.img.WritePixels(frame.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.src.Size()
}

// runWindow opens a window for the figure and blocks until the step
// callback stops the loop or the user closes the window.
func runWindow(src frameSource, title string, tps int, step func() error) error {
	w, h := src.Size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(&game{src: src, step: step})
}

func showWindow(p *Plot, step func() error) error {
	return runWindow(p, p.fig.cfg.Title, p.fig.cfg.TPS, step)
}

// Show opens a window displaying the plot and blocks until step returns
// [Stop] (or an error), or the window is closed.
//
// step runs once per display tick on the loop goroutine and is the only
// place the plot may be updated while the window is open; the plot is not
// safe for concurrent use. Pass nil for a static view.
func (p *Plot) Show(step func() error) error {
	if p.fig.closed {
		return ErrClosed
	}
	return showWindow(p, step)
}

// Show opens a window displaying the heatmap. Semantics match
// [Plot.Show].
func (h *Heatmap) Show(step func() error) error {
	if h.fig.closed {
		return ErrClosed
	}
	return runWindow(h, h.fig.cfg.Title, h.fig.cfg.TPS, step)
}
