// Command liveplot-demo plots a decaying sine wave live, either in the
// current process or through the process offload channel.
package main

import (
	"flag"
	"log"
	"math"
	"time"

	"github.com/gogpu/liveplot"
)

func main() {
	// Must run before anything else: in the offload child this call
	// never returns.
	liveplot.Init()

	var (
		offload  = flag.Bool("offload", false, "render in a child process")
		headless = flag.Bool("headless", false, "render without a window (offload mode)")
		points   = flag.Int("points", 200, "number of points to plot")
		delay    = flag.Duration("delay", 20*time.Millisecond, "delay between points")
		output   = flag.String("output", "", "save the final figure to a PNG file (in-process mode)")
	)
	flag.Parse()

	opts := []liveplot.Option{
		liveplot.WithXLim(0, 10),
		liveplot.WithYLim(-1, 1),
		liveplot.WithXLabel("t [s]"),
		liveplot.WithYLabel("amplitude"),
		liveplot.WithHeadless(*headless),
	}

	if *offload {
		runOffload(*points, *delay, opts)
		return
	}
	runLocal(*points, *output, opts)
}

func sample(i, n int) (x, y float64) {
	x = 10 * float64(i) / float64(n)
	y = math.Exp(-x/4) * math.Sin(2*math.Pi*x)
	return x, y
}

// runOffload pushes points from this process and lets a child render them.
func runOffload(n int, delay time.Duration, opts []liveplot.Option) {
	proc, err := liveplot.Start("decaying sine", opts...)
	if err != nil {
		log.Fatalf("Failed to start plot process: %v", err)
	}
	for i := 0; i <= n; i++ {
		x, y := sample(i, n)
		if err := proc.Send(x, y); err != nil {
			log.Fatalf("Failed to send point: %v", err)
		}
		time.Sleep(delay)
	}
	if !proc.Alive() {
		log.Printf("Plot process exited early: %v", proc.Err())
	}
	if err := proc.Close(); err != nil {
		log.Fatalf("Failed to close plot process: %v", err)
	}
}

// runLocal renders in this process, one point per display tick.
func runLocal(n int, output string, opts []liveplot.Option) {
	plot, err := liveplot.New("decaying sine", opts...)
	if err != nil {
		log.Fatalf("Failed to create plot: %v", err)
	}
	defer plot.Close()

	i := 0
	err = plot.Show(func() error {
		if i > n {
			return liveplot.Stop
		}
		x, y := sample(i, n)
		i++
		return plot.Update(x, y)
	})
	if err != nil {
		log.Fatalf("Plot window failed: %v", err)
	}

	if output != "" {
		if err := plot.SavePNG(output); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Figure saved to %s", output)
	}
}
