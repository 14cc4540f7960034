// Package ui draws the HUD and panels on top of the flock view.
// Panels are laid out from small descriptors so adding a tunable only
// touches the descriptor table.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
)

// SliderDescriptor binds one raygui slider to a steering parameter.
type SliderDescriptor struct {
	ID     string                     // Unique identifier
	Label  string                     // Display label
	Format string                     // Printf format for the value readout
	Min    float32                    // Slider lower bound
	Max    float32                    // Slider upper bound
	Field  func(*sim.Params) *float32 // Parameter the slider edits
}

// ParamSliders lists the runtime tunables in display order.
func ParamSliders() []SliderDescriptor {
	return []SliderDescriptor{
		{ID: "separation", Label: "Separation", Format: "%.3f", Min: 0, Max: 0.2,
			Field: func(p *sim.Params) *float32 { return &p.Separation }},
		{ID: "cohesion", Label: "Cohesion", Format: "%.3f", Min: 0, Max: 0.2,
			Field: func(p *sim.Params) *float32 { return &p.Cohesion }},
		{ID: "alignment", Label: "Alignment", Format: "%.2f", Min: 0, Max: 2,
			Field: func(p *sim.Params) *float32 { return &p.Alignment }},
		{ID: "border", Label: "Border", Format: "%.2f", Min: 0, Max: 2,
			Field: func(p *sim.Params) *float32 { return &p.Border }},
		{ID: "inertia", Label: "Inertia", Format: "%.2f", Min: 0, Max: 2,
			Field: func(p *sim.Params) *float32 { return &p.Inertia }},
		{ID: "speed", Label: "Speed", Format: "%.1f", Min: 0, Max: 10,
			Field: func(p *sim.Params) *float32 { return &p.Speed }},
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	WarnColor      rl.Color
	HotColor       rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		WarnColor:      rl.Orange,
		HotColor:       rl.Red,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
