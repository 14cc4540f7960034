package ui

import (
	"testing"
	"time"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

func TestParamSlidersCoverDefaults(t *testing.T) {
	defaults := sim.ParamsFromConfig(config.Default())
	seen := make(map[string]bool)

	for _, d := range ParamSliders() {
		if seen[d.ID] {
			t.Errorf("duplicate slider %q", d.ID)
		}
		seen[d.ID] = true

		if d.Min >= d.Max {
			t.Errorf("%s: empty range [%v, %v]", d.ID, d.Min, d.Max)
		}
		p := defaults
		v := *d.Field(&p)
		if v < d.Min || v > d.Max {
			t.Errorf("%s: default %v outside slider range [%v, %v]", d.ID, v, d.Min, d.Max)
		}
	}
	if len(seen) != 6 {
		t.Errorf("got %d sliders, want 6", len(seen))
	}
}

func TestSetParam(t *testing.T) {
	var sep SliderDescriptor
	for _, d := range ParamSliders() {
		if d.ID == "separation" {
			sep = d
		}
	}

	tests := []struct {
		name    string
		start   float32
		v       float32
		want    float32
		changed bool
	}{
		{"inside range", 0.02, 0.05, 0.05, true},
		{"unchanged", 0.05, 0.05, 0.05, false},
		{"clamped high", 0.02, 10, sep.Max, true},
		{"clamped low", 0.02, -1, sep.Min, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sim.Params{Separation: tt.start}
			changed := SetParam(&p, sep, tt.v)
			if changed != tt.changed || p.Separation != tt.want {
				t.Errorf("SetParam(%v) = %v, separation %v; want %v, %v", tt.v, changed, p.Separation, tt.changed, tt.want)
			}
		})
	}
}

func TestFPSMeterPublishesPerInterval(t *testing.T) {
	m := NewFPSMeter(500 * time.Millisecond)

	for i := 0; i < 10; i++ {
		m.Frame(16 * time.Millisecond)
	}
	if m.Value() != 0 {
		t.Errorf("value published before the interval elapsed: %d", m.Value())
	}

	for i := 0; i < 30; i++ {
		m.Frame(20 * time.Millisecond)
	}
	// 27 frames in exactly 0.5s at the first publish.
	if got := m.Value(); got != 54 {
		t.Errorf("fps = %d, want 54", got)
	}
}

func TestPhaseOrderMatchesTelemetry(t *testing.T) {
	got := phaseOrder(systems.NewSystemRegistry())
	if len(got) != len(telemetry.Phases) {
		t.Fatalf("registry lists %d phases, telemetry %d", len(got), len(telemetry.Phases))
	}
	for i, id := range telemetry.Phases {
		if got[i] != id {
			t.Errorf("phase %d = %q, want %q", i, got[i], id)
		}
	}
	if len(phaseOrder(nil)) != len(telemetry.Phases) {
		t.Error("nil registry should fall back to telemetry phases")
	}
}
