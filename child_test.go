package liveplot

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

func testSession(t *testing.T) *session {
	t.Helper()
	p, err := New("child test", WithSize(200, 160), WithXLim(0, 100), WithYLim(0, 100))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return &session{plot: p, box: newMailbox()}
}

func TestSessionStepAppliesBatchInOrder(t *testing.T) {
	s := testSession(t)
	const n = 50
	for i := range n {
		s.box.put(message{Op: opPoint, X: float64(i), Y: float64(i)})
	}

	// One step applies the whole batch: exactly n points, in send order.
	if err := s.step(); err != nil {
		t.Fatalf("step() = %v", err)
	}
	got := s.plot.Trace()
	if len(got) != n {
		t.Fatalf("renderer saw %d points, want %d", len(got), n)
	}
	for i := range got {
		if got[i].X != float64(i) {
			t.Errorf("point %d arrived as %v", i, got[i])
		}
	}

	// An idle tick is a no-op.
	if err := s.step(); err != nil {
		t.Fatalf("idle step() = %v", err)
	}
	if s.plot.Len() != n {
		t.Errorf("idle step changed the trace: %d points", s.plot.Len())
	}
}

func TestSessionStepDrainsBeforeClose(t *testing.T) {
	s := testSession(t)
	s.box.put(message{Op: opPoint, X: 1, Y: 1})
	s.box.put(message{Op: opPoint, X: 2, Y: 2})
	s.box.put(message{Op: opClose})

	// Points queued before the sentinel are applied on the same tick.
	err := s.step()
	if !errors.Is(err, errShutdown) {
		t.Fatalf("step() = %v, want errShutdown", err)
	}
	if s.plot.Len() != 2 {
		t.Errorf("renderer saw %d points before shutdown, want 2", s.plot.Len())
	}
}

func TestSessionStepZeroPoints(t *testing.T) {
	// N = 0: a close with nothing queued still shuts down cleanly.
	s := testSession(t)
	s.box.put(message{Op: opClose})
	if err := s.step(); !errors.Is(err, errShutdown) {
		t.Fatalf("step() = %v, want errShutdown", err)
	}
	if s.plot.Len() != 0 {
		t.Errorf("renderer saw %d points, want 0", s.plot.Len())
	}
}

func TestSessionStepSkipsBadMessages(t *testing.T) {
	s := testSession(t)
	nan := math.NaN()
	s.box.put(message{Op: opPoint, X: 1, Y: 1})
	s.box.put(message{Op: opPoint, X: nan, Y: nan})
	s.box.put(message{Op: opPoint, X: 2, Y: 2})
	if err := s.step(); err != nil {
		t.Fatalf("step() = %v", err)
	}
	got := s.plot.Trace()
	if len(got) != 2 || got[0].X != 1 || got[1].X != 2 {
		t.Errorf("trace = %v, want the two finite points", got)
	}
}

func testHeatmapSession(t *testing.T) *session {
	t.Helper()
	h, err := NewHeatmap("child test", 4, 3, WithSize(220, 160))
	if err != nil {
		t.Fatalf("NewHeatmap() = %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return &session{heat: h, box: newMailbox()}
}

func TestSessionStepAppliesHeatmapBatch(t *testing.T) {
	s := testHeatmapSession(t)
	s.box.put(message{Op: opCell, IX: 1, IY: 1, V: 5})
	s.box.put(message{Op: opCell, IX: 2, IY: 0, V: -5})
	s.box.put(message{Op: opCell, IX: 9, IY: 9, V: 1}) // out of bounds, dropped
	if err := s.step(); err != nil {
		t.Fatalf("step() = %v", err)
	}
	if got := s.heat.cells[1][1]; got != 5 {
		t.Errorf("cells[1][1] = %g, want 5", got)
	}
	if got := s.heat.cells[0][2]; got != -5 {
		t.Errorf("cells[0][2] = %g, want -5", got)
	}
	vmin, vmax, ok := s.heat.Scale()
	if !ok || vmin != -5 || vmax != 5 {
		t.Errorf("Scale() = %g, %g, %v, want -5, 5, true", vmin, vmax, ok)
	}
}

func TestSessionStepAppliesGridAndRelim(t *testing.T) {
	s := testHeatmapSession(t)
	// Widen the scale first, then replace the grid and re-fit: the relim
	// must see only the grid values.
	s.box.put(message{Op: opCell, IX: 0, IY: 0, V: 100})
	if err := s.step(); err != nil {
		t.Fatalf("step() = %v", err)
	}
	grid := [][]float64{
		{1, 2, 3, 4},
		{1, 2, 3, 4},
		{1, 2, 3, 4},
	}
	s.box.put(message{Op: opGrid, Grid: grid})
	s.box.put(message{Op: opRelim})
	if err := s.step(); err != nil {
		t.Fatalf("step() = %v", err)
	}
	vmin, vmax, ok := s.heat.Scale()
	if !ok || vmin != 1 || vmax != 4 {
		t.Errorf("Scale() = %g, %g, %v, want 1, 4, true", vmin, vmax, ok)
	}
}

func TestSessionDropsMismatchedOps(t *testing.T) {
	// Trace ops in a heatmap session (and vice versa) are dropped, never
	// applied, never fatal.
	hs := testHeatmapSession(t)
	hs.box.put(message{Op: opPoint, X: 1, Y: 1})
	hs.box.put(message{Op: opSetData, Xs: []float64{1}, Ys: []float64{1}})
	if err := hs.step(); err != nil {
		t.Fatalf("heatmap step() = %v", err)
	}
	if _, _, ok := hs.heat.Scale(); ok {
		t.Error("trace ops changed heatmap state")
	}

	ts := testSession(t)
	ts.box.put(message{Op: opCell, IX: 0, IY: 0, V: 1})
	ts.box.put(message{Op: opRelim})
	if err := ts.step(); err != nil {
		t.Fatalf("trace step() = %v", err)
	}
	if ts.plot.Len() != 0 {
		t.Errorf("heatmap ops changed the trace: Len() = %d", ts.plot.Len())
	}
}

func TestRunChildHeadlessHeatmap(t *testing.T) {
	// End-to-end heatmap child without a process or a window.
	pr, pw := io.Pipe()
	cfg := newConfig("headless heatmap",
		WithSize(220, 160),
		WithHeadless(true),
		WithTPS(200),
	)

	go func() {
		enc := newEncoder(pw)
		_ = enc.encode(message{Op: opHello, Cfg: &cfg, Xlen: 4, Ylen: 3})
		for ix := range 4 {
			_ = enc.encode(message{Op: opCell, IX: ix, IY: ix % 3, V: float64(ix)})
		}
		_ = enc.encode(message{Op: opRelim})
		_ = enc.encode(message{Op: opClose})
		_ = pw.Close()
	}()

	done := make(chan int, 1)
	go func() { done <- runChild(pr) }()

	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("runChild() = %d, want 0", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runChild() did not terminate")
	}
}

func TestRunChildRejectsBadHeatmapHello(t *testing.T) {
	var buf bytes.Buffer
	cfg := newConfig("bad heatmap", WithHeadless(true))
	// Only one grid dimension set: heatmap session with an invalid grid.
	_ = newEncoder(&buf).encode(message{Op: opHello, Cfg: &cfg, Xlen: 4})
	if code := runChild(&buf); code != 1 {
		t.Errorf("runChild() = %d, want 1", code)
	}
}

func TestSessionReadFeedsRendererInOrder(t *testing.T) {
	// Full child pipeline short of the window: pipe -> decode goroutine
	// -> mailbox -> per-tick drain.
	s := testSession(t)
	pr, pw := io.Pipe()
	go s.read(newDecoder(pr))

	enc := newEncoder(pw)
	const n = 25
	for i := range n {
		if err := enc.encode(message{Op: opPoint, X: float64(i), Y: 0}); err != nil {
			t.Fatalf("encode() = %v", err)
		}
	}
	if err := enc.encode(message{Op: opClose}); err != nil {
		t.Fatalf("encode(close) = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		err := s.step()
		if errors.Is(err, errShutdown) {
			break
		}
		if err != nil {
			t.Fatalf("step() = %v", err)
		}
		select {
		case <-deadline:
			t.Fatal("close sentinel not processed within bound")
		default:
		}
	}

	got := s.plot.Trace()
	if len(got) != n {
		t.Fatalf("renderer saw %d points, want %d", len(got), n)
	}
	for i := range got {
		if got[i].X != float64(i) {
			t.Errorf("point %d arrived as %v", i, got[i])
		}
	}
}

func TestSessionReadTreatsEOFAsClose(t *testing.T) {
	// A parent that disappears without the sentinel must still shut the
	// child down after draining what made it through the pipe.
	s := testSession(t)
	var buf bytes.Buffer
	enc := newEncoder(&buf)
	_ = enc.encode(message{Op: opPoint, X: 7, Y: 7})
	s.read(newDecoder(&buf)) // synchronous: buffer hits EOF immediately

	err := s.step()
	if !errors.Is(err, errShutdown) {
		t.Fatalf("step() = %v, want errShutdown", err)
	}
	if s.plot.Len() != 1 {
		t.Errorf("renderer saw %d points, want 1", s.plot.Len())
	}
}

func TestRunChildHeadless(t *testing.T) {
	// End-to-end child run without a process or a window: hello, points,
	// close over a pipe; the headless ticker loop must drain everything
	// and exit 0 within a bounded time.
	pr, pw := io.Pipe()
	cfg := newConfig("headless child",
		WithSize(200, 160),
		WithXLim(0, 10), WithYLim(0, 10),
		WithHeadless(true),
		WithTPS(200),
	)

	go func() {
		enc := newEncoder(pw)
		_ = enc.encode(message{Op: opHello, Cfg: &cfg})
		for i := range 10 {
			_ = enc.encode(message{Op: opPoint, X: float64(i), Y: float64(i)})
		}
		_ = enc.encode(message{Op: opClose})
		_ = pw.Close()
	}()

	done := make(chan int, 1)
	go func() { done <- runChild(pr) }()

	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("runChild() = %d, want 0", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runChild() did not terminate")
	}
}

func TestRunChildRejectsBadHello(t *testing.T) {
	tests := []struct {
		name  string
		setup func(enc *encoder)
	}{
		{name: "empty stream", setup: func(*encoder) {}},
		{name: "first message not hello", setup: func(enc *encoder) {
			_ = enc.encode(message{Op: opPoint, X: 1, Y: 1})
		}},
		{name: "hello without config", setup: func(enc *encoder) {
			_ = enc.encode(message{Op: opHello})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.setup(newEncoder(&buf))
			if code := runChild(&buf); code != 1 {
				t.Errorf("runChild() = %d, want 1", code)
			}
		})
	}
}

func TestRunChildRejectsBadConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := newConfig("bad", WithSize(-1, -1))
	_ = newEncoder(&buf).encode(message{Op: opHello, Cfg: &cfg})
	if code := runChild(&buf); code != 1 {
		t.Errorf("runChild() = %d, want 1", code)
	}
}
