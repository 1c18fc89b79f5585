package liveplot

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// closeTimeout bounds how long Close waits for the child to drain and
// exit before falling back to forced termination.
const closeTimeout = 5 * time.Second

// Process is the parent side of the process offload channel: a plot whose
// render loop runs in a child OS process. Points pushed with Send cross a
// FIFO queue; the child drains the queue on its own tick and redraws once
// per tick, so the producer's cadence is fully decoupled from render cost.
//
// Send is best-effort by contract: it never blocks and never fails because
// of the child's state. If the child dies, later points are dropped;
// Alive and Err make that state discoverable. There is no automatic
// restart.
//
// Process methods are safe for concurrent use.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	box   *mailbox

	// done is closed once the child has been reaped.
	done    chan struct{}
	waitErr error

	// writerDone is closed once the writer goroutine has flushed the
	// mailbox into the pipe (or given up on a broken pipe).
	writerDone chan struct{}

	alive atomic.Bool

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
	closeErr  error
}

// Start launches the offload child and returns the parent-side handle.
//
// The child is the current binary re-executed with the child flag in its
// environment, so main must call [Init] before Start (see the package
// documentation). A child that cannot be spawned is reported as
// ErrChildProcess; configuration problems are reported as ErrConfig
// without spawning anything.
func Start(title string, opts ...Option) (*Process, error) {
	cfg := newConfig(title, opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return start(cfg, message{Op: opHello, Cfg: &cfg})
}

// start spawns the child and wires the parent-side plumbing. hello is the
// first message on the wire and decides whether the child renders a trace
// plot or a heatmap.
func start(cfg Config, hello message) (*Process, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w: resolving executable: %v", ErrChildProcess, err)
	}
	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), childEnvFlag+"=1")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: creating stdin pipe: %v", ErrChildProcess, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChildProcess, err)
	}

	p := &Process{
		cmd:        cmd,
		stdin:      stdin,
		box:        newMailbox(),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	p.alive.Store(true)
	p.box.put(hello)

	go p.reap()
	go p.write()

	Logger().Info("plot process started",
		slog.String("title", cfg.Title),
		slog.Int("pid", cmd.Process.Pid))
	return p, nil
}

// reap waits for the child and records its exit. The error and the
// liveness flag are recorded before done is closed, so any waiter
// released by done observes the final state.
func (p *Process) reap() {
	p.waitErr = p.cmd.Wait()
	if p.waitErr != nil {
		p.setErr(fmt.Errorf("%w: %v", ErrDisconnected, p.waitErr))
	}
	p.alive.Store(false)
	close(p.done)
}

// write drains the mailbox into the pipe. A single writer goroutine owns
// the encoder, which keeps wire messages in Send order. On a write error
// (the child died) the mailbox is closed and everything still queued is
// discarded; Send stays silent per the best-effort contract.
func (p *Process) write() {
	defer close(p.writerDone)
	enc := newEncoder(p.stdin)
	for {
		msgs, ok := p.box.wait()
		for _, msg := range msgs {
			if err := enc.encode(msg); err != nil {
				Logger().Warn("plot process pipe broken, dropping queued points",
					slog.Int("dropped", len(p.box.drain())),
					slog.String("error", err.Error()))
				p.setErr(fmt.Errorf("%w: %v", ErrDisconnected, err))
				p.box.close()
				return
			}
		}
		if !ok {
			return
		}
	}
}

// Send enqueues a point for the child's renderer. It never blocks: the
// parent-side queue is unbounded and a background writer feeds the pipe.
//
// Send returns ErrNotFinite for NaN or infinite coordinates. It returns
// nil in every other case, including after the child has exited; use
// Alive or Err to inspect the channel state.
func (p *Process) Send(x, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: (%g, %g)", ErrNotFinite, x, y)
	}
	if !p.box.put(message{Op: opPoint, X: x, Y: y}) {
		Logger().Debug("point dropped, channel closed",
			slog.Float64("x", x), slog.Float64("y", y))
	}
	return nil
}

// SetData replaces the child plot's whole trace. Like Send it is
// best-effort and only fails on non-finite input.
func (p *Process) SetData(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: x/y length mismatch (%d != %d)", ErrConfig, len(xs), len(ys))
	}
	for i := range xs {
		if !(Point{X: xs[i], Y: ys[i]}).finite() {
			return fmt.Errorf("%w: (%g, %g) at index %d", ErrNotFinite, xs[i], ys[i], i)
		}
	}
	msg := message{Op: opSetData, Xs: append([]float64(nil), xs...), Ys: append([]float64(nil), ys...)}
	p.box.put(msg)
	return nil
}

// Alive reports whether the child process is still running.
func (p *Process) Alive() bool { return p.alive.Load() }

// Err returns the terminal state of the channel: nil while healthy,
// an error wrapping ErrDisconnected after the child has exited or the
// pipe has broken.
func (p *Process) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

func (p *Process) setErr(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

// Close sends the close sentinel, flushes everything already queued, and
// waits for the child to drain and exit. The wait is bounded: a child
// that has not exited within the timeout is terminated forcibly. Close is
// idempotent and safe to call after the child has already died.
func (p *Process) Close() error {
	p.closeOnce.Do(func() { p.closeErr = p.doClose() })
	return p.closeErr
}

func (p *Process) doClose() error {
	Logger().Debug("closing plot process")
	p.box.put(message{Op: opClose})
	p.box.close()

	// Let the writer flush the sentinel and everything before it.
	<-p.writerDone
	_ = p.stdin.Close()

	select {
	case <-p.done:
	case <-time.After(closeTimeout):
		Logger().Warn("plot process did not exit in time, killing it",
			slog.Int("pid", p.cmd.Process.Pid))
		_ = p.cmd.Process.Kill()
		<-p.done
		return fmt.Errorf("%w: killed after %s", ErrDisconnected, closeTimeout)
	}

	// A child that exited on its own before Close (crash, broken pipe)
	// is a disconnection, not a clean shutdown; surface it here too.
	return p.Err()
}

// HeatmapProcess is the parent side of an offloaded heatmap: same
// channel as [Process], with cell messages instead of trace messages.
//
// Like Process.Send, the setters are best-effort: they validate their
// input, never block, and stay silent after the child has exited.
type HeatmapProcess struct {
	proc *Process
	xlen int
	ylen int
}

// StartHeatmap launches an offload child rendering an xlen-by-ylen
// heatmap. Semantics match [Start].
func StartHeatmap(title string, xlen, ylen int, opts ...Option) (*HeatmapProcess, error) {
	if xlen <= 0 || ylen <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d (both must be > 0)", ErrConfig, xlen, ylen)
	}
	cfg := newConfig(title, opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p, err := start(cfg, message{Op: opHello, Cfg: &cfg, Xlen: xlen, Ylen: ylen})
	if err != nil {
		return nil, err
	}
	return &HeatmapProcess{proc: p, xlen: xlen, ylen: ylen}, nil
}

// Set enqueues one cell assignment for the child's renderer. NaN clears
// the cell. Returns ErrBounds for indices outside the grid and
// ErrNotFinite for infinities; nil in every other case.
func (h *HeatmapProcess) Set(ix, iy int, v float64) error {
	if ix < 0 || ix >= h.xlen || iy < 0 || iy >= h.ylen {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d grid", ErrBounds, ix, iy, h.xlen, h.ylen)
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("%w: %g", ErrNotFinite, v)
	}
	h.proc.box.put(message{Op: opCell, IX: ix, IY: iy, V: v})
	return nil
}

// SetGrid enqueues a full cell grid replacement. data is indexed [iy][ix]
// and must match the grid dimensions.
func (h *HeatmapProcess) SetGrid(data [][]float64) error {
	if len(data) != h.ylen {
		return fmt.Errorf("%w: %d rows, want %d", ErrBounds, len(data), h.ylen)
	}
	for iy, row := range data {
		if len(row) != h.xlen {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrBounds, iy, len(row), h.xlen)
		}
	}
	grid := make([][]float64, len(data))
	for iy, row := range data {
		grid[iy] = append([]float64(nil), row...)
	}
	h.proc.box.put(message{Op: opGrid, Grid: grid})
	return nil
}

// Relim asks the child to re-fit its color scale to the current data.
func (h *HeatmapProcess) Relim() {
	h.proc.box.put(message{Op: opRelim})
}

// Alive reports whether the child process is still running.
func (h *HeatmapProcess) Alive() bool { return h.proc.Alive() }

// Err returns the terminal state of the channel. See [Process.Err].
func (h *HeatmapProcess) Err() error { return h.proc.Err() }

// Close shuts the channel down. See [Process.Close].
func (h *HeatmapProcess) Close() error { return h.proc.Close() }
