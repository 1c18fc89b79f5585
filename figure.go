package liveplot

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Font sizes in points for the figure chrome.
const (
	titleFontSize = 16.0
	labelFontSize = 13.0
	tickFontSize  = 11.0
)

// Tick mark length in pixels.
const tickLen = 4.0

// fontSet holds the faces used by a figure. All faces share one source
// backed by the embedded Go Regular font, so a figure needs no font files
// on disk.
type fontSet struct {
	source *text.FontSource
	title  text.Face
	label  text.Face
	tick   text.Face
}

func newFontSet() (*fontSet, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("liveplot: loading embedded font: %w", err)
	}
	return &fontSet{
		source: source,
		title:  source.Face(titleFontSize),
		label:  source.Face(labelFontSize),
		tick:   source.Face(tickFontSize),
	}, nil
}

func (f *fontSet) close() error {
	if f.source == nil {
		return nil
	}
	err := f.source.Close()
	f.source = nil
	return err
}

// figure is the drawing state shared by Plot and Heatmap: one gg context
// rendering into an explicitly owned pixmap, the axes geometry, and the
// fonts. The pixmap is injected with gg.WithPixmap so the figure keeps
// direct access to the raw pixel data; that is what makes the blitting
// background restore a plain byte copy.
type figure struct {
	cfg    Config
	pm     *gg.Pixmap
	dc     *gg.Context
	fonts  *fontSet
	ax     axes
	closed bool
}

func newFigure(cfg Config, extraRight float64) (*figure, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fonts, err := newFontSet()
	if err != nil {
		return nil, err
	}
	pm := gg.NewPixmap(cfg.Width, cfg.Height)
	dc := gg.NewContext(cfg.Width, cfg.Height, gg.WithPixmap(pm))
	return &figure{
		cfg:   cfg,
		pm:    pm,
		dc:    dc,
		fonts: fonts,
		ax: axes{
			width:      cfg.Width,
			height:     cfg.Height,
			extraRight: extraRight,
		},
	}, nil
}

// drawChrome renders the static parts of the figure: background, title,
// axis labels, the axes frame, tick marks with labels, and grid lines.
// Everything drawChrome draws depends only on the configuration and the
// current axis limits, never on the trace data.
func (f *figure) drawChrome() {
	dc := f.dc
	x0, y0, x1, y1 := f.ax.rect()

	dc.ClearWithColor(gg.White)

	// Title, centered over the plot area.
	dc.SetColor(gg.Black)
	dc.SetFont(f.fonts.title)
	dc.DrawStringAnchored(f.cfg.Title, (x0+x1)/2, marginTop*0.45, 0.5, 0.35)

	// Axis labels.
	dc.SetFont(f.fonts.label)
	dc.DrawStringAnchored(f.cfg.XLabel, (x0+x1)/2, float64(f.cfg.Height)-14, 0.5, 0.35)
	dc.Push()
	dc.Translate(16, (y0+y1)/2)
	dc.Rotate(-1.5707963267948966) // -pi/2: y label reads bottom-up
	dc.DrawStringAnchored(f.cfg.YLabel, 0, 0, 0.5, 0.35)
	dc.Pop()

	f.drawTicks()

	// Axes frame goes last so grid lines never overdraw it.
	dc.SetColor(gg.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	_ = dc.Stroke()
}

// drawTicks renders tick marks, tick labels and (optionally) grid lines
// for the current axis limits.
func (f *figure) drawTicks() {
	dc := f.dc
	x0, y0, x1, y1 := f.ax.rect()

	xstep := f.cfg.TickStep
	ystep := f.cfg.TickStep
	if xstep <= 0 {
		xstep = niceStep(f.ax.x.span(), targetTicks)
	}
	if ystep <= 0 {
		ystep = niceStep(f.ax.y.span(), targetTicks)
	}

	dc.SetFont(f.fonts.tick)

	for _, v := range ticks(f.ax.x, xstep) {
		px, _ := f.ax.pixel(v, f.ax.y.Min)
		if f.cfg.Grid {
			dc.SetColor(gg.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1})
			dc.SetLineWidth(0.8)
			dc.SetDash(2, 3)
			dc.DrawLine(px, y0, px, y1)
			_ = dc.Stroke()
			dc.ClearDash()
		}
		dc.SetColor(gg.Black)
		dc.SetLineWidth(1)
		dc.DrawLine(px, y1, px, y1+tickLen)
		_ = dc.Stroke()
		dc.DrawStringAnchored(tickLabel(v, xstep), px, y1+tickLen+11, 0.5, 0.35)
	}

	for _, v := range ticks(f.ax.y, ystep) {
		_, py := f.ax.pixel(f.ax.x.Min, v)
		if f.cfg.Grid {
			dc.SetColor(gg.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1})
			dc.SetLineWidth(0.8)
			dc.SetDash(2, 3)
			dc.DrawLine(x0, py, x1, py)
			_ = dc.Stroke()
			dc.ClearDash()
		}
		dc.SetColor(gg.Black)
		dc.SetLineWidth(1)
		dc.DrawLine(x0-tickLen, py, x0, py)
		_ = dc.Stroke()
		dc.DrawStringAnchored(tickLabel(v, ystep), x0-tickLen-4, py, 1, 0.35)
	}
}

// Frame returns a copy of the current figure contents. Returns nil after
// the figure has been closed.
func (f *figure) Frame() *image.RGBA {
	if f.closed {
		return nil
	}
	return f.pm.ToImage()
}

// SavePNG writes the current figure contents to a PNG file.
func (f *figure) SavePNG(path string) error {
	if f.closed {
		return ErrClosed
	}
	return f.pm.SavePNG(path)
}

// Size returns the figure dimensions in pixels.
func (f *figure) Size() (width, height int) {
	return f.cfg.Width, f.cfg.Height
}

// close releases the drawing context and fonts. Idempotent.
func (f *figure) close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	err := f.fonts.close()
	if cerr := f.dc.Close(); err == nil {
		err = cerr
	}
	return err
}
