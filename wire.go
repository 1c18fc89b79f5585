package liveplot

import (
	"encoding/gob"
	"fmt"
	"io"
)

// The offload channel speaks a tiny gob protocol over the child's stdin
// pipe: a hello message carrying the figure configuration, followed by a
// stream of data messages, terminated by a close sentinel. A single
// encoder feeding a single decoder over one pipe makes delivery FIFO by
// construction.

// opcode identifies a wire message.
type opcode uint8

const (
	opHello opcode = iota + 1
	opPoint
	opSetData
	opCell
	opGrid
	opRelim
	opClose
)

func (op opcode) String() string {
	switch op {
	case opHello:
		return "hello"
	case opPoint:
		return "point"
	case opSetData:
		return "setData"
	case opCell:
		return "cell"
	case opGrid:
		return "grid"
	case opRelim:
		return "relim"
	case opClose:
		return "close"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
}

// message is one unit on the wire. Fields are exported for gob; which
// ones are meaningful depends on Op.
type message struct {
	Op opcode

	// opPoint
	X float64
	Y float64

	// opSetData
	Xs []float64
	Ys []float64

	// opCell
	IX int
	IY int
	V  float64

	// opGrid
	Grid [][]float64

	// opHello. Nonzero Xlen/Ylen make the child render a heatmap with
	// that cell grid instead of a trace plot.
	Cfg  *Config
	Xlen int
	Ylen int
}

// encoder writes messages to one side of the pipe.
type encoder struct {
	enc *gob.Encoder
}

func newEncoder(w io.Writer) *encoder {
	return &encoder{enc: gob.NewEncoder(w)}
}

func (e *encoder) encode(msg message) error {
	if err := e.enc.Encode(msg); err != nil {
		return fmt.Errorf("liveplot: encoding %v message: %w", msg.Op, err)
	}
	return nil
}

// decoder reads messages from the other side of the pipe.
type decoder struct {
	dec *gob.Decoder
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{dec: gob.NewDecoder(r)}
}

func (d *decoder) decode() (message, error) {
	var msg message
	if err := d.dec.Decode(&msg); err != nil {
		return message{}, err
	}
	return msg, nil
}
