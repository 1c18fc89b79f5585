package liveplot

import (
	"errors"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := newConfig("signal")
	if cfg.Title != "signal" {
		t.Errorf("Title = %q, want %q", cfg.Title, "signal")
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("dimensions = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
	if !cfg.Grid {
		t.Error("Grid should default to true")
	}
	if cfg.XLim != nil || cfg.YLim != nil {
		t.Error("axis limits should default to nil")
	}
	if cfg.Style.Color == "" || cfg.Style.LineWidth == 0 {
		t.Errorf("Style not defaulted: %+v", cfg.Style)
	}
	if cfg.TPS <= 0 {
		t.Errorf("TPS = %d, want > 0", cfg.TPS)
	}
}

func TestOptions(t *testing.T) {
	cfg := newConfig("t",
		WithXLabel("time"),
		WithYLabel("volts"),
		WithSize(320, 240),
		WithXLim(0, 10),
		WithYLim(-1, 1),
		WithGrid(false),
		WithTickStep(0.5),
		WithTPS(10),
		WithHeadless(true),
	)
	if cfg.XLabel != "time" || cfg.YLabel != "volts" {
		t.Errorf("labels = %q/%q", cfg.XLabel, cfg.YLabel)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("dimensions = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
	if cfg.XLim == nil || *cfg.XLim != (Range{Min: 0, Max: 10}) {
		t.Errorf("XLim = %v", cfg.XLim)
	}
	if cfg.YLim == nil || *cfg.YLim != (Range{Min: -1, Max: 1}) {
		t.Errorf("YLim = %v", cfg.YLim)
	}
	if cfg.Grid {
		t.Error("WithGrid(false) not applied")
	}
	if cfg.TickStep != 0.5 || cfg.TPS != 10 || !cfg.Headless {
		t.Errorf("TickStep/TPS/Headless = %v/%v/%v", cfg.TickStep, cfg.TPS, cfg.Headless)
	}
}

func TestWithStyleKeepsDefaults(t *testing.T) {
	cfg := newConfig("t", WithStyle(TraceStyle{MarkerRadius: 3}))
	def := defaultStyle()
	if cfg.Style.Color != def.Color {
		t.Errorf("Color = %q, want default %q", cfg.Style.Color, def.Color)
	}
	if cfg.Style.LineWidth != def.LineWidth {
		t.Errorf("LineWidth = %g, want default %g", cfg.Style.LineWidth, def.LineWidth)
	}
	if cfg.Style.MarkerRadius != 3 {
		t.Errorf("MarkerRadius = %g, want 3", cfg.Style.MarkerRadius)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "defaults", opts: nil, wantErr: false},
		{name: "both limits", opts: []Option{WithXLim(0, 10), WithYLim(-1, 1)}, wantErr: false},
		{name: "zero width", opts: []Option{WithSize(0, 100)}, wantErr: true},
		{name: "negative height", opts: []Option{WithSize(100, -1)}, wantErr: true},
		{name: "inverted xlim", opts: []Option{WithXLim(10, 0)}, wantErr: true},
		{name: "empty ylim", opts: []Option{WithYLim(1, 1)}, wantErr: true},
		{name: "negative tick step", opts: []Option{WithTickStep(-1)}, wantErr: true},
		{name: "zero tps", opts: []Option{WithTPS(0)}, wantErr: true},
		{name: "negative marker", opts: []Option{WithStyle(TraceStyle{MarkerRadius: -2})}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig("t", tt.opts...)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfig) {
				t.Errorf("validate() = %v, want ErrConfig", err)
			}
		})
	}
}

func TestConfigBlitting(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want bool
	}{
		{name: "no limits", opts: nil, want: false},
		{name: "xlim only", opts: []Option{WithXLim(0, 1)}, want: false},
		{name: "ylim only", opts: []Option{WithYLim(0, 1)}, want: false},
		{name: "both limits", opts: []Option{WithXLim(0, 1), WithYLim(0, 1)}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig("t", tt.opts...)
			if got := cfg.blitting(); got != tt.want {
				t.Errorf("blitting() = %v, want %v", got, tt.want)
			}
		})
	}
}
