package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
)

// ParamsPanel edits steering parameters with raygui sliders.
type ParamsPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	x, y     int32
	width    int32
}

// NewParamsPanel creates a parameter panel anchored at (x, y).
func NewParamsPanel(x, y, width int32) *ParamsPanel {
	return &ParamsPanel{
		renderer: NewRenderer(),
		sliders:  ParamSliders(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *ParamsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel height in pixels.
func (p *ParamsPanel) Height() int32 {
	t := p.renderer.Theme
	return t.Padding*2 + t.LineHeight + 4 + int32(len(p.sliders))*(t.LineHeight+8) + 28
}

// Draw renders the sliders and the reset button. It returns the edited
// parameters and whether anything changed this frame.
func (p *ParamsPanel) Draw(current, defaults sim.Params) (sim.Params, bool) {
	t := p.renderer.Theme
	p.renderer.DrawPanel(p.x, p.y, p.width, p.Height())

	x := p.x + t.Padding
	y := p.renderer.DrawSectionHeader(x, p.y+t.Padding, "Steering")

	next := current
	changed := false
	sliderW := float32(p.width - 2*t.Padding - t.LabelWidth - 50)

	for _, d := range p.sliders {
		rl.DrawText(d.Label, x, y+3, t.FontSize, t.LabelColor)
		v := gui.SliderBar(
			rl.Rectangle{X: float32(x + t.LabelWidth), Y: float32(y), Width: sliderW, Height: float32(t.LineHeight)},
			"", "",
			*d.Field(&next), d.Min, d.Max,
		)
		if SetParam(&next, d, v) {
			changed = true
		}
		rl.DrawText(fmt.Sprintf(d.Format, *d.Field(&next)), x+t.LabelWidth+int32(sliderW)+6, y+3, t.FontSize, t.ValueColor)
		y += t.LineHeight + 8
	}

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 80, Height: 22}, "Reset") {
		return defaults, next != defaults || changed
	}
	return next, changed
}

// SetParam writes v into the parameter d edits, clamped to the slider range.
// It reports whether the stored value changed.
func SetParam(p *sim.Params, d SliderDescriptor, v float32) bool {
	if math.IsNaN(float64(v)) {
		return false
	}
	if v < d.Min {
		v = d.Min
	}
	if v > d.Max {
		v = d.Max
	}
	field := d.Field(p)
	if *field == v {
		return false
	}
	*field = v
	return true
}
