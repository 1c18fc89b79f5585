package liveplot

import (
	"fmt"
	"image"
	"log/slog"
)

// Plot is a live-updating line plot: one figure, one axes area, one trace.
//
// The rendering mode is fixed at construction. With both axis limits set
// (WithXLim and WithYLim) the plot blits: the figure chrome is rendered
// once, snapshotted, and every update restores the snapshot and strokes
// only the trace. Without fixed limits every update recomputes the data
// limits and redraws the whole figure.
//
// Plot is not safe for concurrent use.
type Plot struct {
	fig   *figure
	trace Trace

	// blit mode state. bg holds the raw pixels of the figure chrome;
	// nil outside blitting mode.
	blit bool
	bg   []uint8
}

// New creates a plot and draws its initial (empty) figure.
func New(title string, opts ...Option) (*Plot, error) {
	return newPlot(newConfig(title, opts...))
}

func newPlot(cfg Config) (*Plot, error) {
	fig, err := newFigure(cfg, 0)
	if err != nil {
		return nil, err
	}
	p := &Plot{
		fig:  fig,
		blit: cfg.blitting(),
	}
	p.fig.ax.autoscale(&p.trace, &p.fig.cfg)
	p.fig.drawChrome()
	if p.blit {
		// Snapshot the chrome. From here on the axis limits are never
		// recomputed; updates restore these bytes and stroke the trace.
		p.bg = make([]uint8, len(fig.pm.Data()))
		copy(p.bg, fig.pm.Data())
	}
	Logger().Info("figure created",
		slog.String("title", cfg.Title),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Bool("blitting", p.blit))
	return p, nil
}

// Blitting reports whether the plot uses blitting-based partial redraw.
// The mode is fixed for the lifetime of the plot.
func (p *Plot) Blitting() bool { return p.blit }

// Trace returns a copy of the plotted points in arrival order.
func (p *Plot) Trace() []Point { return p.trace.Points() }

// Len returns the number of plotted points.
func (p *Plot) Len() int { return p.trace.Len() }

// Update appends a point to the trace and redraws.
//
// Returns ErrClosed after Close, and ErrNotFinite for NaN or infinite
// coordinates; a rejected point is not added to the trace.
func (p *Plot) Update(x, y float64) error {
	if err := p.append(x, y); err != nil {
		return err
	}
	return p.Redraw()
}

// append validates and stores a point without redrawing. The offload
// child uses this to apply a whole batch of queued points before its
// single per-tick redraw.
func (p *Plot) append(x, y float64) error {
	if p.fig.closed {
		return ErrClosed
	}
	if !(Point{X: x, Y: y}).finite() {
		return fmt.Errorf("%w: (%g, %g)", ErrNotFinite, x, y)
	}
	p.trace.append(x, y)
	return nil
}

// SetData replaces the whole trace and redraws.
func (p *Plot) SetData(xs, ys []float64) error {
	if err := p.replace(xs, ys); err != nil {
		return err
	}
	return p.Redraw()
}

// replace validates and swaps the trace contents without redrawing.
func (p *Plot) replace(xs, ys []float64) error {
	if p.fig.closed {
		return ErrClosed
	}
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: x/y length mismatch (%d != %d)", ErrConfig, len(xs), len(ys))
	}
	for i := range xs {
		if !(Point{X: xs[i], Y: ys[i]}).finite() {
			return fmt.Errorf("%w: (%g, %g) at index %d", ErrNotFinite, xs[i], ys[i], i)
		}
	}
	p.trace.replace(xs, ys)
	return nil
}

// Redraw re-renders the figure from the current trace. Update and SetData
// call it implicitly; it only needs to be called directly after a batch of
// appends (see the offload child loop).
func (p *Plot) Redraw() error {
	if p.fig.closed {
		return ErrClosed
	}
	if p.blit {
		// Fast path: restore the cached chrome, stroke the trace.
		copy(p.fig.pm.Data(), p.bg)
		return p.strokeTrace()
	}
	// Slow path: recompute data limits and redraw everything.
	p.fig.ax.autoscale(&p.trace, &p.fig.cfg)
	p.fig.drawChrome()
	return p.strokeTrace()
}

// strokeTrace renders the trace artist, clipped to the plot area.
func (p *Plot) strokeTrace() error {
	if p.trace.Len() == 0 {
		return nil
	}
	dc := p.fig.dc
	style := p.fig.cfg.Style

	x0, y0, x1, y1 := p.fig.ax.rect()
	dc.Push()
	dc.ClipRect(x0, y0, x1-x0, y1-y0)
	defer dc.Pop()

	dc.SetHexColor(style.Color)

	if style.LineWidth > 0 && p.trace.Len() > 1 {
		dc.SetLineWidth(style.LineWidth)
		if len(style.Dash) > 0 {
			dc.SetDash(style.Dash...)
		}
		px, py := p.fig.ax.pixel(p.trace.xs[0], p.trace.ys[0])
		dc.MoveTo(px, py)
		for i := 1; i < p.trace.Len(); i++ {
			px, py = p.fig.ax.pixel(p.trace.xs[i], p.trace.ys[i])
			dc.LineTo(px, py)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("liveplot: stroking trace: %w", err)
		}
		dc.ClearDash()
	}

	if style.MarkerRadius > 0 {
		for i := 0; i < p.trace.Len(); i++ {
			px, py := p.fig.ax.pixel(p.trace.xs[i], p.trace.ys[i])
			dc.DrawCircle(px, py, style.MarkerRadius)
		}
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("liveplot: filling markers: %w", err)
		}
	}
	return nil
}

// Frame returns a copy of the current figure as an RGBA image, or nil
// after Close.
func (p *Plot) Frame() *image.RGBA { return p.fig.Frame() }

// SavePNG writes the current figure to a PNG file.
func (p *Plot) SavePNG(path string) error { return p.fig.SavePNG(path) }

// Size returns the figure dimensions in pixels.
func (p *Plot) Size() (width, height int) { return p.fig.Size() }

// Close releases the figure. Further Update, SetData and Redraw calls
// return ErrClosed. Close is idempotent.
func (p *Plot) Close() error {
	if p.fig.closed {
		return nil
	}
	Logger().Debug("closing figure", slog.String("title", p.fig.cfg.Title))
	p.bg = nil
	return p.fig.close()
}
