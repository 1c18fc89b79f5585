package liveplot

import (
	"fmt"
	"math"
)

// Default figure dimensions, chosen to match a 6x6 inch figure at 100 dpi.
const (
	DefaultWidth  = 600
	DefaultHeight = 600
)

// defaultTPS is the drain/redraw rate of the offload child and of Show.
const defaultTPS = 30

// Range is a closed numeric interval, used for axis limits.
type Range struct {
	Min float64
	Max float64
}

// valid reports whether the range is finite and non-empty.
func (r Range) valid() bool {
	return !math.IsNaN(r.Min) && !math.IsInf(r.Min, 0) &&
		!math.IsNaN(r.Max) && !math.IsInf(r.Max, 0) &&
		r.Min < r.Max
}

// span returns the width of the range.
func (r Range) span() float64 { return r.Max - r.Min }

// TraceStyle controls how the trace artist is stroked. The zero value is
// replaced with the default style at construction. The style is passed
// through to the underlying gg stroke machinery unchanged.
type TraceStyle struct {
	// Color is a hex color string, e.g. "#1f77b4". Parsed by gg.
	Color string

	// LineWidth is the stroke width in pixels. Zero means the default
	// width; negative disables the connecting line entirely (markers only).
	LineWidth float64

	// Dash is an on/off dash pattern in pixels. Empty means solid.
	Dash []float64

	// MarkerRadius draws a filled circle of this radius at every point.
	// Zero means no markers.
	MarkerRadius float64
}

// defaultStyle returns the style used when the caller does not set one.
func defaultStyle() TraceStyle {
	return TraceStyle{
		Color:     "#1f77b4",
		LineWidth: 1.5,
	}
}

// Config holds the full configuration of a figure. It is immutable after
// construction: in particular, blitting eligibility (both XLim and YLim
// present) is fixed for the session and the rendering mode never changes
// mid-stream.
//
// Config is assembled from an Option list by New, Start and NewHeatmap.
// All fields are exported so a Config can cross the process boundary to
// the offload child via gob.
type Config struct {
	Title  string
	XLabel string
	YLabel string

	// Width and Height are the figure dimensions in pixels.
	Width  int
	Height int

	// XLim and YLim fix the axis limits. When both are set the plot uses
	// blitting; when either is nil the plot recomputes data limits and
	// redraws the whole figure on every update.
	XLim *Range
	YLim *Range

	// Grid draws dashed grid lines at the major ticks.
	Grid bool

	// TickStep forces a fixed tick spacing on both axes. Zero selects
	// tick positions automatically.
	TickStep float64

	// Style configures the trace artist.
	Style TraceStyle

	// TPS is the tick rate of the offload child's drain loop and of Show.
	TPS int

	// Headless runs the offload child without a window, draining and
	// rendering on a plain timer. Useful on machines without a display.
	Headless bool
}

// Option configures a figure during creation.
//
// Example:
//
//	plot, err := liveplot.New("signal",
//	    liveplot.WithXLim(0, 10),
//	    liveplot.WithYLim(-1, 1),
//	    liveplot.WithGrid(false),
//	)
type Option func(*Config)

// newConfig applies opts on top of the defaults.
func newConfig(title string, opts ...Option) Config {
	cfg := Config{
		Title:  title,
		XLabel: "x",
		YLabel: "y",
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Grid:   true,
		Style:  defaultStyle(),
		TPS:    defaultTPS,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithXLabel sets the x-axis label.
func WithXLabel(label string) Option {
	return func(c *Config) { c.XLabel = label }
}

// WithYLabel sets the y-axis label.
func WithYLabel(label string) Option {
	return func(c *Config) { c.YLabel = label }
}

// WithSize sets the figure dimensions in pixels.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithXLim fixes the x-axis limits. Together with WithYLim this enables
// blitting: the axes are rendered once and never recomputed.
func WithXLim(min, max float64) Option {
	return func(c *Config) { c.XLim = &Range{Min: min, Max: max} }
}

// WithYLim fixes the y-axis limits. See WithXLim.
func WithYLim(min, max float64) Option {
	return func(c *Config) { c.YLim = &Range{Min: min, Max: max} }
}

// WithGrid toggles grid lines at the major ticks.
func WithGrid(grid bool) Option {
	return func(c *Config) { c.Grid = grid }
}

// WithTickStep forces a fixed tick spacing on both axes instead of the
// automatically chosen one.
func WithTickStep(step float64) Option {
	return func(c *Config) { c.TickStep = step }
}

// WithStyle sets the trace style. Zero-valued fields keep their defaults.
func WithStyle(style TraceStyle) Option {
	return func(c *Config) {
		if style.Color == "" {
			style.Color = c.Style.Color
		}
		if style.LineWidth == 0 {
			style.LineWidth = c.Style.LineWidth
		}
		c.Style = style
	}
}

// WithTPS sets the tick rate of the offload child's drain loop (and of
// Show). The child drains all queued points and redraws once per tick.
func WithTPS(tps int) Option {
	return func(c *Config) { c.TPS = tps }
}

// WithHeadless runs the offload child without a window. Points are still
// drained and rendered on a timer, so SavePNG output and the trace state
// behave exactly as in windowed mode.
func WithHeadless(headless bool) Option {
	return func(c *Config) { c.Headless = headless }
}

// validate checks the configuration for construction-time errors.
func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d (both must be > 0)", ErrConfig, c.Width, c.Height)
	}
	if c.XLim != nil && !c.XLim.valid() {
		return fmt.Errorf("%w: xlim [%g, %g]", ErrConfig, c.XLim.Min, c.XLim.Max)
	}
	if c.YLim != nil && !c.YLim.valid() {
		return fmt.Errorf("%w: ylim [%g, %g]", ErrConfig, c.YLim.Min, c.YLim.Max)
	}
	if c.TickStep < 0 || math.IsNaN(c.TickStep) || math.IsInf(c.TickStep, 0) {
		return fmt.Errorf("%w: tick step %g", ErrConfig, c.TickStep)
	}
	if c.Style.MarkerRadius < 0 {
		return fmt.Errorf("%w: marker radius %g", ErrConfig, c.Style.MarkerRadius)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps %d (must be > 0)", ErrConfig, c.TPS)
	}
	return nil
}

// blitting reports whether the configuration makes the session eligible
// for blitting. Fixed at construction.
func (c *Config) blitting() bool {
	return c.XLim != nil && c.YLim != nil
}
