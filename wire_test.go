package liveplot

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestWireStreamFIFO(t *testing.T) {
	// One encoder feeding one decoder must deliver a whole session in
	// order: hello, data messages, close sentinel.
	var buf bytes.Buffer
	enc := newEncoder(&buf)

	cfg := newConfig("wire test", WithXLim(0, 10), WithYLim(-1, 1), WithHeadless(true))
	if err := enc.encode(message{Op: opHello, Cfg: &cfg}); err != nil {
		t.Fatalf("encode(hello) = %v", err)
	}
	for i := range 10 {
		if err := enc.encode(message{Op: opPoint, X: float64(i), Y: float64(i) * 0.5}); err != nil {
			t.Fatalf("encode(point %d) = %v", i, err)
		}
	}
	if err := enc.encode(message{Op: opSetData, Xs: []float64{1, 2}, Ys: []float64{3, 4}}); err != nil {
		t.Fatalf("encode(setData) = %v", err)
	}
	if err := enc.encode(message{Op: opClose}); err != nil {
		t.Fatalf("encode(close) = %v", err)
	}

	dec := newDecoder(&buf)

	hello, err := dec.decode()
	if err != nil {
		t.Fatalf("decode(hello) = %v", err)
	}
	if hello.Op != opHello || hello.Cfg == nil {
		t.Fatalf("first message = %+v, want hello with config", hello)
	}
	if hello.Cfg.Title != "wire test" || !hello.Cfg.blitting() || !hello.Cfg.Headless {
		t.Errorf("config did not survive the wire: %+v", hello.Cfg)
	}

	for i := range 10 {
		msg, err := dec.decode()
		if err != nil {
			t.Fatalf("decode(point %d) = %v", i, err)
		}
		if msg.Op != opPoint || msg.X != float64(i) || msg.Y != float64(i)*0.5 {
			t.Errorf("point %d arrived as %+v", i, msg)
		}
	}

	msg, err := dec.decode()
	if err != nil || msg.Op != opSetData {
		t.Fatalf("decode(setData) = %+v, %v", msg, err)
	}
	if len(msg.Xs) != 2 || msg.Xs[0] != 1 || msg.Ys[1] != 4 {
		t.Errorf("setData payload = %v/%v", msg.Xs, msg.Ys)
	}

	msg, err = dec.decode()
	if err != nil || msg.Op != opClose {
		t.Fatalf("decode(close) = %+v, %v", msg, err)
	}

	if _, err := dec.decode(); !errors.Is(err, io.EOF) {
		t.Errorf("decode() past end = %v, want io.EOF", err)
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   opcode
		want string
	}{
		{op: opHello, want: "hello"},
		{op: opPoint, want: "point"},
		{op: opSetData, want: "setData"},
		{op: opCell, want: "cell"},
		{op: opGrid, want: "grid"},
		{op: opRelim, want: "relim"},
		{op: opClose, want: "close"},
		{op: opcode(99), want: "opcode(99)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
