package liveplot

import (
	"math"
	"strconv"
)

// Figure margins in pixels. The left and bottom margins leave room for
// tick labels and axis labels; the top margin leaves room for the title.
const (
	marginLeft   = 64.0
	marginRight  = 18.0
	marginTop    = 40.0
	marginBottom = 52.0
)

// targetTicks is the tick count the automatic step selection aims for.
const targetTicks = 6

// axes maps data coordinates onto the pixel rectangle left inside the
// figure margins. The y axis is flipped: data y grows upward, pixel y
// grows downward.
type axes struct {
	width  int
	height int

	// extra right margin, used by the heatmap colorbar.
	extraRight float64

	x Range
	y Range
}

// rect returns the pixel rectangle of the plot area.
func (a *axes) rect() (x0, y0, x1, y1 float64) {
	return marginLeft, marginTop,
		float64(a.width) - marginRight - a.extraRight,
		float64(a.height) - marginBottom
}

// pixel converts a data point to pixel coordinates.
func (a *axes) pixel(x, y float64) (px, py float64) {
	x0, y0, x1, y1 := a.rect()
	px = x0 + (x-a.x.Min)/a.x.span()*(x1-x0)
	py = y1 - (y-a.y.Min)/a.y.span()*(y1-y0)
	return px, py
}

// contains reports whether a data point falls inside the current limits.
func (a *axes) contains(x, y float64) bool {
	return x >= a.x.Min && x <= a.x.Max && y >= a.y.Min && y <= a.y.Max
}

// autoscale recomputes the axis limits from the trace, the way a full
// redraw does. Limits fixed in the configuration always win over the data;
// only the free axes are recomputed. An empty trace keeps the unit range
// so that an initial figure can still be drawn.
func (a *axes) autoscale(t *Trace, cfg *Config) {
	dx, dy, ok := t.dataRange()
	if cfg.XLim != nil {
		a.x = *cfg.XLim
	} else if ok {
		a.x = padRange(dx)
	} else {
		a.x = Range{Min: 0, Max: 1}
	}
	if cfg.YLim != nil {
		a.y = *cfg.YLim
	} else if ok {
		a.y = padRange(dy)
	} else {
		a.y = Range{Min: 0, Max: 1}
	}
}

// padRange widens a data range by 5% on each side so the trace does not
// touch the axes. A degenerate range (single x or constant y) is widened
// to a usable interval around its value.
func padRange(r Range) Range {
	span := r.span()
	if span == 0 {
		pad := math.Abs(r.Min) * 0.05
		if pad == 0 {
			pad = 0.5
		}
		return Range{Min: r.Min - pad, Max: r.Max + pad}
	}
	pad := span * 0.05
	return Range{Min: r.Min - pad, Max: r.Max + pad}
}

// niceStep picks a tick spacing of the form {1, 2, 5} x 10^k that yields
// roughly maxTicks ticks over the span.
func niceStep(span float64, maxTicks int) float64 {
	if span <= 0 || maxTicks <= 0 {
		return 1
	}
	raw := span / float64(maxTicks)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch frac := raw / mag; {
	case frac < 1.5:
		return mag
	case frac < 3:
		return 2 * mag
	case frac < 7:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// ticks returns the tick positions inside r. A zero step selects the
// spacing automatically.
func ticks(r Range, step float64) []float64 {
	if step <= 0 {
		step = niceStep(r.span(), targetTicks)
	}
	var out []float64
	first := math.Ceil(r.Min/step) * step
	// The epsilon absorbs floating point noise at the upper limit.
	for v := first; v <= r.Max+step*1e-9; v += step {
		// Snap values like 0.30000000000000004 back onto the grid.
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

// tickLabel formats a tick value with just enough decimals for the step.
func tickLabel(v, step float64) string {
	if step <= 0 {
		step = 1
	}
	decimals := 0
	if e := math.Floor(math.Log10(step)); e < 0 {
		decimals = int(-e)
	}
	if decimals > 10 {
		decimals = 10
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
