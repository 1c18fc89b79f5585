package liveplot

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/gogpu/gg"
)

// colorbarWidth is the extra right margin reserved for the colorbar and
// its tick labels.
const colorbarWidth = 62.0

// Heatmap is a live-updating 2D plot: an xlen-by-ylen cell grid rendered
// through a colormap, with a colorbar whose scale tracks the data. Cells
// start out empty (NaN) and render as background until set.
//
// The color scale only ever widens as data arrives, so colors stay
// comparable across updates; call Relim to re-fit the scale to the
// current data.
//
// Heatmaps assume linearly spaced cells within the axis limits and always
// redraw in full; there is no blitting mode, because the grid itself is
// the dynamic artist.
//
// Heatmap is not safe for concurrent use.
type Heatmap struct {
	fig  *figure
	xlen int
	ylen int

	// cells is indexed [iy][ix], NaN for unset.
	cells [][]float64

	// Color scale. haveScale is false until the first finite cell.
	vmin, vmax float64
	haveScale  bool
}

// NewHeatmap creates a heatmap with an xlen-by-ylen cell grid.
//
// Axis limits default to (0, xlen) and (0, ylen), and either way are
// expanded by half a cell step on each side so tick positions line up
// with cell centers.
func NewHeatmap(title string, xlen, ylen int, opts ...Option) (*Heatmap, error) {
	return newHeatmap(newConfig(title, opts...), xlen, ylen)
}

func newHeatmap(cfg Config, xlen, ylen int) (*Heatmap, error) {
	if xlen <= 0 || ylen <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d (both must be > 0)", ErrConfig, xlen, ylen)
	}
	cfg.Grid = false // grid lines make no sense over filled cells
	if cfg.XLim == nil {
		cfg.XLim = &Range{Min: 0, Max: float64(xlen)}
	}
	if cfg.YLim == nil {
		cfg.YLim = &Range{Min: 0, Max: float64(ylen)}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	// Expand limits by half a step so ticks land on cell centers.
	xstep := cfg.XLim.span() / float64(xlen)
	ystep := cfg.YLim.span() / float64(ylen)
	cfg.XLim = &Range{Min: cfg.XLim.Min - xstep/2, Max: cfg.XLim.Max + xstep/2}
	cfg.YLim = &Range{Min: cfg.YLim.Min - ystep/2, Max: cfg.YLim.Max + ystep/2}

	fig, err := newFigure(cfg, colorbarWidth)
	if err != nil {
		return nil, err
	}
	h := &Heatmap{
		fig:   fig,
		xlen:  xlen,
		ylen:  ylen,
		cells: make([][]float64, ylen),
	}
	for iy := range h.cells {
		row := make([]float64, xlen)
		for ix := range row {
			row[ix] = math.NaN()
		}
		h.cells[iy] = row
	}
	h.fig.ax.x = *cfg.XLim
	h.fig.ax.y = *cfg.YLim
	if err := h.Redraw(); err != nil {
		return nil, err
	}
	Logger().Info("heatmap created",
		slog.String("title", cfg.Title),
		slog.Int("xlen", xlen),
		slog.Int("ylen", ylen))
	return h, nil
}

// Set assigns the value of one cell and redraws. NaN clears the cell.
func (h *Heatmap) Set(ix, iy int, v float64) error {
	if err := h.setCell(ix, iy, v); err != nil {
		return err
	}
	return h.Redraw()
}

// setCell validates and stores one cell without redrawing. The offload
// child uses this to apply a whole batch of queued cells before its
// single per-tick redraw.
func (h *Heatmap) setCell(ix, iy int, v float64) error {
	if h.fig.closed {
		return ErrClosed
	}
	if ix < 0 || ix >= h.xlen || iy < 0 || iy >= h.ylen {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d grid", ErrBounds, ix, iy, h.xlen, h.ylen)
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("%w: %g", ErrNotFinite, v)
	}
	h.cells[iy][ix] = v
	return nil
}

// SetGrid replaces the full cell grid and redraws. data is indexed
// [iy][ix] and must match the grid dimensions.
func (h *Heatmap) SetGrid(data [][]float64) error {
	if err := h.setGridData(data); err != nil {
		return err
	}
	return h.Redraw()
}

// setGridData validates and swaps the cell grid without redrawing.
func (h *Heatmap) setGridData(data [][]float64) error {
	if h.fig.closed {
		return ErrClosed
	}
	if len(data) != h.ylen {
		return fmt.Errorf("%w: %d rows, want %d", ErrBounds, len(data), h.ylen)
	}
	for iy, row := range data {
		if len(row) != h.xlen {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrBounds, iy, len(row), h.xlen)
		}
	}
	for iy, row := range data {
		copy(h.cells[iy], row)
	}
	return nil
}

// Relim re-fits the color scale to the current data, instead of the
// default widen-only behavior, then redraws.
func (h *Heatmap) Relim() error {
	if err := h.relim(); err != nil {
		return err
	}
	return h.Redraw()
}

// relim marks the color scale for re-fitting without redrawing.
func (h *Heatmap) relim() error {
	if h.fig.closed {
		return ErrClosed
	}
	h.haveScale = false
	return nil
}

// updateScale folds the current cells into the color scale. Outside of
// Relim the scale only widens, never shrinks.
func (h *Heatmap) updateScale() {
	for _, row := range h.cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if !h.haveScale {
				h.vmin, h.vmax = v, v
				h.haveScale = true
				continue
			}
			h.vmin = math.Min(h.vmin, v)
			h.vmax = math.Max(h.vmax, v)
		}
	}
}

// Scale returns the current colorbar range. ok is false before any finite
// cell has been set.
func (h *Heatmap) Scale() (vmin, vmax float64, ok bool) {
	return h.vmin, h.vmax, h.haveScale
}

// Redraw re-renders the whole figure from the current cells.
func (h *Heatmap) Redraw() error {
	if h.fig.closed {
		return ErrClosed
	}
	h.updateScale()
	h.fig.drawChrome()
	h.drawCells()
	h.drawColorbar()
	return nil
}

// drawCells fills one rectangle per set cell.
func (h *Heatmap) drawCells() {
	dc := h.fig.dc
	x0, y0, x1, y1 := h.fig.ax.rect()
	cw := (x1 - x0) / float64(h.xlen)
	ch := (y1 - y0) / float64(h.ylen)

	for iy, row := range h.cells {
		for ix, v := range row {
			if math.IsNaN(v) {
				continue
			}
			dc.SetColor(inferno(h.norm(v)))
			// Row 0 sits at the bottom: data y grows upward.
			px := x0 + float64(ix)*cw
			py := y1 - float64(iy+1)*ch
			// The +0.5 overlap avoids hairline seams between cells.
			dc.DrawRectangle(px, py, cw+0.5, ch+0.5)
			_ = dc.Fill()
		}
	}
}

// drawColorbar renders the vertical colorbar strip and its tick labels in
// the extra right margin.
func (h *Heatmap) drawColorbar() {
	dc := h.fig.dc
	_, y0, x1, y1 := h.fig.ax.rect()
	bx := x1 + 14.0
	bw := 14.0

	// Gradient strip, one horizontal band per pixel row.
	for py := y0; py < y1; py++ {
		t := (y1 - py) / (y1 - y0)
		dc.SetColor(inferno(t))
		dc.DrawRectangle(bx, py, bw, 1.5)
		_ = dc.Fill()
	}
	dc.SetColor(gg.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(bx, y0, bw, y1-y0)
	_ = dc.Stroke()

	// Scale labels. Before any data the bar is drawn without labels.
	if !h.haveScale {
		return
	}
	scale := Range{Min: h.vmin, Max: h.vmax}
	if scale.span() == 0 {
		scale = padRange(scale)
	}
	step := niceStep(scale.span(), 5)
	dc.SetFont(h.fig.fonts.tick)
	for _, v := range ticks(scale, step) {
		py := y1 - (v-scale.Min)/scale.span()*(y1-y0)
		dc.DrawLine(bx+bw, py, bx+bw+tickLen, py)
		_ = dc.Stroke()
		dc.DrawStringAnchored(tickLabel(v, step), bx+bw+tickLen+3, py, 0, 0.35)
	}
}

// norm maps a cell value onto [0, 1] within the current color scale.
func (h *Heatmap) norm(v float64) float64 {
	if !h.haveScale || h.vmax == h.vmin {
		return 0.5
	}
	return (v - h.vmin) / (h.vmax - h.vmin)
}

// Frame returns a copy of the current figure, or nil after Close.
func (h *Heatmap) Frame() *image.RGBA { return h.fig.Frame() }

// SavePNG writes the current figure to a PNG file.
func (h *Heatmap) SavePNG(path string) error { return h.fig.SavePNG(path) }

// Size returns the figure dimensions in pixels.
func (h *Heatmap) Size() (width, height int) { return h.fig.Size() }

// Close releases the figure. Idempotent.
func (h *Heatmap) Close() error {
	if h.fig.closed {
		return nil
	}
	Logger().Debug("closing heatmap", slog.String("title", h.fig.cfg.Title))
	return h.fig.close()
}
