package liveplot

import "github.com/gogpu/gg"

// infernoStops are evenly spaced control points of the perceptually
// uniform "inferno" colormap. Colors between stops are interpolated
// linearly, which is visually indistinguishable from the full table at
// heatmap cell sizes.
var infernoStops = []gg.RGBA{
	{R: 0.001462, G: 0.000466, B: 0.013866, A: 1},
	{R: 0.087411, G: 0.044556, B: 0.224813, A: 1},
	{R: 0.258234, G: 0.038571, B: 0.406485, A: 1},
	{R: 0.416331, G: 0.090203, B: 0.432943, A: 1},
	{R: 0.578304, G: 0.148039, B: 0.404411, A: 1},
	{R: 0.735683, G: 0.215906, B: 0.330245, A: 1},
	{R: 0.865006, G: 0.316822, B: 0.226055, A: 1},
	{R: 0.954506, G: 0.468744, B: 0.099874, A: 1},
	{R: 0.988362, G: 0.998364, B: 0.644924, A: 1},
}

// inferno maps t in [0, 1] to a color. Values outside the interval clamp
// to the endpoints.
func inferno(t float64) gg.RGBA {
	if t <= 0 {
		return infernoStops[0]
	}
	if t >= 1 {
		return infernoStops[len(infernoStops)-1]
	}
	pos := t * float64(len(infernoStops)-1)
	i := int(pos)
	frac := pos - float64(i)
	lo, hi := infernoStops[i], infernoStops[i+1]
	return gg.RGBA{
		R: lo.R + (hi.R-lo.R)*frac,
		G: lo.G + (hi.G-lo.G)*frac,
		B: lo.B + (hi.B-lo.B)*frac,
		A: 1,
	}
}
