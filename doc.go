// Package liveplot provides live-updating 2D plots for Go.
//
// # Overview
//
// liveplot is a thin convenience layer over the gg 2D graphics library.
// It owns a single figure with one axes area, appends points to a trace as
// they arrive, and redraws the figure after every update. Two things make
// it suitable for tight producer loops:
//
//   - Blitting. When both axis limits are fixed up front, the static parts
//     of the figure (axes, grid, tick marks, labels, title) are rendered
//     once and cached as raw pixels. Each update restores the cached
//     background and strokes only the trace, so per-update cost stays
//     near-constant regardless of figure complexity.
//
//   - Process offload. The plotting loop can run in a separate OS process
//     so the caller's loop is never slowed by render cost. The parent
//     pushes points into a cross-process queue; the child drains the queue
//     on its own tick and redraws once per tick, not once per point.
//
// # Quick Start
//
//	import "github.com/gogpu/liveplot"
//
//	plot, err := liveplot.New("ADC readout",
//	    liveplot.WithXLim(0, 10),
//	    liveplot.WithYLim(-1, 1),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer plot.Close()
//
//	for i := 0; i < 100; i++ {
//	    if err := plot.Update(float64(i)*0.1, sample()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	plot.SavePNG("readout.png")
//
// # Process Offload
//
// Offloaded plots re-execute the current binary as a child process, so
// main must call [Init] before anything else:
//
//	func main() {
//	    liveplot.Init() // no-op in the parent, runs the plot loop in the child
//
//	    proc, err := liveplot.Start("ADC readout",
//	        liveplot.WithXLim(0, 10),
//	        liveplot.WithYLim(-1, 1),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer proc.Close()
//
//	    for i := 0; i < 100; i++ {
//	        proc.Send(float64(i)*0.1, sample()) // never blocks
//	    }
//	}
//
// [Process.Send] is best-effort: it enqueues without blocking and stays
// silent if the child has already exited. Use [Process.Alive] and
// [Process.Err] to inspect the channel state.
//
// Heatmaps offload the same way through [StartHeatmap], which returns a
// [HeatmapProcess] carrying cell updates instead of trace points.
//
// # Rendering Modes
//
// The mode is decided at construction and never changes mid-session:
// a plot constructed with both WithXLim and WithYLim uses blitting; a plot
// missing either limit recomputes data limits and redraws the whole figure
// on every update.
//
// # Thread Safety
//
// Plot and Heatmap are NOT safe for concurrent use. Drive each figure from
// a single goroutine, or use the process offload channel, which serializes
// all updates through its queue.
package liveplot

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
