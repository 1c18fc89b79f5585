package liveplot

import "errors"

// Sentinel errors for the liveplot package. Errors returned by this package
// wrap one of these sentinels, so callers can classify failures with
// errors.Is regardless of the contextual detail added at the call site.
var (
	// ErrConfig is returned when a plot is constructed with an invalid
	// configuration (non-positive dimensions, inverted axis limits, ...).
	ErrConfig = errors.New("liveplot: invalid configuration")

	// ErrNotFinite is returned when a data point contains NaN or an
	// infinity. Points are rejected as a whole; a trace never holds a
	// partially valid point.
	ErrNotFinite = errors.New("liveplot: point is not finite")

	// ErrClosed is returned when a plot is updated after Close.
	ErrClosed = errors.New("liveplot: plot is closed")

	// ErrBounds is returned when a heatmap cell index is outside the grid.
	ErrBounds = errors.New("liveplot: cell index out of range")

	// ErrChildProcess is returned when the offload child process could not
	// be started.
	ErrChildProcess = errors.New("liveplot: plot process failed to start")

	// ErrDisconnected is reported by Process.Err after the child process
	// has exited. Points sent after disconnection are dropped; Send itself
	// stays silent (best-effort contract).
	ErrDisconnected = errors.New("liveplot: plot process has exited")
)
