package liveplot

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"
)

// childEnvFlag marks a re-executed binary as the offload child.
const childEnvFlag = "LIVEPLOT_CHILD"

// errShutdown signals the render loop that the close sentinel has been
// processed and everything sent before it has been drained.
var errShutdown = errors.New("liveplot: shutdown")

// Init hands control to the plot loop when the current binary was
// re-executed as an offload child, and returns immediately otherwise.
//
// Programs that use [Start] must call Init first thing in main, before
// flag parsing or any other side effects, because the child runs the same
// main as the parent. In the child, Init never returns.
func Init() {
	if os.Getenv(childEnvFlag) == "" {
		return
	}
	os.Exit(runChild(os.Stdin))
}

// runChild is the offload child's entry point: read the hello message,
// build the figure, then drain points and render until the close sentinel
// arrives. A hello carrying grid dimensions makes the child render a
// heatmap instead of a trace plot. Split from Init (and parameterized on
// the reader) so the whole child pipeline can be exercised in tests
// without spawning a process.
func runChild(r io.Reader) int {
	dec := newDecoder(r)
	hello, err := dec.decode()
	if err != nil || hello.Op != opHello || hello.Cfg == nil {
		Logger().Error("plot child: no hello message", slog.Any("error", err))
		return 1
	}
	cfg := *hello.Cfg

	sess := &session{box: newMailbox()}
	var src frameSource
	if hello.Xlen > 0 || hello.Ylen > 0 {
		heat, err := newHeatmap(cfg, hello.Xlen, hello.Ylen)
		if err != nil {
			Logger().Error("plot child: creating heatmap", slog.Any("error", err))
			return 1
		}
		defer heat.Close()
		sess.heat = heat
		src = heat
	} else {
		plot, err := newPlot(cfg)
		if err != nil {
			Logger().Error("plot child: creating figure", slog.Any("error", err))
			return 1
		}
		defer plot.Close()
		sess.plot = plot
		src = plot
	}
	go sess.read(dec)

	if cfg.Headless {
		err = runTicker(sess.step, cfg.TPS)
	} else {
		err = runWindow(src, cfg.Title, cfg.TPS, sess.step)
	}
	if err != nil {
		Logger().Error("plot child: render loop", slog.Any("error", err))
		return 1
	}
	return 0
}

// session couples the child's decode goroutine to its render tick through
// a FIFO mailbox. The decode goroutine owns the pipe; the render tick
// owns the figure. They share nothing but the mailbox. Exactly one of
// plot and heat is set, per the hello message.
type session struct {
	plot *Plot
	heat *Heatmap
	box  *mailbox
}

// read decodes messages off the pipe into the mailbox until the close
// sentinel or the end of the stream. A broken or exhausted pipe (the
// parent went away without closing) is treated as a close so the child
// still drains what it has and exits cleanly.
func (s *session) read(dec *decoder) {
	for {
		msg, err := dec.decode()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				Logger().Warn("plot child: pipe read failed", slog.Any("error", err))
			}
			s.box.put(message{Op: opClose})
			s.box.close()
			return
		}
		s.box.put(msg)
		if msg.Op == opClose {
			s.box.close()
			return
		}
	}
}

// step runs once per render tick: apply ALL currently queued messages in
// arrival order, then redraw once. Redrawing per tick instead of per
// message keeps render cost bounded regardless of the producer rate.
// Returns errShutdown after the close sentinel has been applied.
func (s *session) step() error {
	msgs := s.box.drain()
	dirty := false
	closing := false
	for _, msg := range msgs {
		switch msg.Op {
		case opPoint:
			if s.plot == nil {
				Logger().Warn("plot child: point message in heatmap session")
				continue
			}
			if err := s.plot.append(msg.X, msg.Y); err != nil {
				Logger().Warn("plot child: dropping point", slog.Any("error", err))
				continue
			}
			dirty = true
		case opSetData:
			if s.plot == nil {
				Logger().Warn("plot child: setData message in heatmap session")
				continue
			}
			if err := s.plot.replace(msg.Xs, msg.Ys); err != nil {
				Logger().Warn("plot child: dropping setData", slog.Any("error", err))
				continue
			}
			dirty = true
		case opCell:
			if s.heat == nil {
				Logger().Warn("plot child: cell message in trace session")
				continue
			}
			if err := s.heat.setCell(msg.IX, msg.IY, msg.V); err != nil {
				Logger().Warn("plot child: dropping cell", slog.Any("error", err))
				continue
			}
			dirty = true
		case opGrid:
			if s.heat == nil {
				Logger().Warn("plot child: grid message in trace session")
				continue
			}
			if err := s.heat.setGridData(msg.Grid); err != nil {
				Logger().Warn("plot child: dropping grid", slog.Any("error", err))
				continue
			}
			dirty = true
		case opRelim:
			if s.heat == nil {
				Logger().Warn("plot child: relim message in trace session")
				continue
			}
			if err := s.heat.relim(); err != nil {
				Logger().Warn("plot child: dropping relim", slog.Any("error", err))
				continue
			}
			dirty = true
		case opClose:
			closing = true
		case opHello:
			// Duplicate hello; the figure already exists.
		}
	}
	if dirty {
		if err := s.redraw(); err != nil {
			return err
		}
	}
	if closing {
		Logger().Debug("plot child: close sentinel processed")
		return errShutdown
	}
	return nil
}

func (s *session) redraw() error {
	if s.heat != nil {
		return s.heat.Redraw()
	}
	return s.plot.Redraw()
}

// runTicker is the headless render loop: same drain semantics as the
// windowed loop, on a plain timer instead of a display tick.
func runTicker(step func() error, tps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()
	for range ticker.C {
		if err := step(); err != nil {
			if errors.Is(err, errShutdown) {
				return nil
			}
			return err
		}
	}
	return nil
}
