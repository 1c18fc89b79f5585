package liveplot

import "math"

// Point is a single (x, y) data point.
type Point struct {
	X float64
	Y float64
}

// finite reports whether both coordinates are real numbers.
func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Trace is the ordered sequence of plotted points for one line. Points are
// kept in arrival order: the trace is append-only during a session and is
// not sorted by value.
type Trace struct {
	xs []float64
	ys []float64
}

// Len returns the number of points in the trace.
func (t *Trace) Len() int { return len(t.xs) }

// At returns the i-th point in arrival order.
func (t *Trace) At(i int) Point { return Point{X: t.xs[i], Y: t.ys[i]} }

// Points returns a copy of the trace in arrival order.
func (t *Trace) Points() []Point {
	pts := make([]Point, len(t.xs))
	for i := range t.xs {
		pts[i] = Point{X: t.xs[i], Y: t.ys[i]}
	}
	return pts
}

// append adds a point to the end of the trace.
func (t *Trace) append(x, y float64) {
	t.xs = append(t.xs, x)
	t.ys = append(t.ys, y)
}

// replace swaps the trace contents for the given data.
func (t *Trace) replace(xs, ys []float64) {
	t.xs = append(t.xs[:0], xs...)
	t.ys = append(t.ys[:0], ys...)
}

// dataRange returns the bounding ranges of the trace, ignoring nothing:
// the trace only ever holds finite points. ok is false for an empty trace.
func (t *Trace) dataRange() (x, y Range, ok bool) {
	if len(t.xs) == 0 {
		return Range{}, Range{}, false
	}
	x = Range{Min: t.xs[0], Max: t.xs[0]}
	y = Range{Min: t.ys[0], Max: t.ys[0]}
	for i := 1; i < len(t.xs); i++ {
		x.Min = math.Min(x.Min, t.xs[i])
		x.Max = math.Max(x.Max, t.xs[i])
		y.Min = math.Min(y.Min, t.ys[i])
		y.Max = math.Max(y.Max, t.ys[i])
	}
	return x, y, true
}
