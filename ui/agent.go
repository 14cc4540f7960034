package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/systems"
)

// AgentPanelData describes the selected agent.
type AgentPanelData struct {
	ID        uint32
	Pos       components.Position
	Vel       components.Velocity
	Breakdown sim.Breakdown
}

// AgentPanel shows the state and rule contributions of the selected agent.
type AgentPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewAgentPanel creates an agent panel anchored at (x, y).
func NewAgentPanel(x, y, width int32) *AgentPanel {
	return &AgentPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *AgentPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *AgentPanel) Draw(data AgentPanelData) {
	t := p.renderer.Theme
	rows := int32(11)
	p.renderer.DrawPanel(p.x, p.y, p.width, t.Padding*2+t.LineHeight+4+rows*t.LineHeight)

	x := p.x + t.Padding
	y := p.renderer.DrawSectionHeader(x, p.y+t.Padding, fmt.Sprintf("Boid #%d", data.ID))

	b := data.Breakdown
	y = p.renderer.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.2f, %.2f)", data.Pos.X, data.Pos.Y))
	y = p.renderer.DrawLabelValue(x, y, "Heading", fmt.Sprintf("(%.2f, %.2f)", data.Vel.X, data.Vel.Y))
	y = p.renderer.DrawLabelValue(x, y, "Neighbors", fmt.Sprintf("%d", b.Neighbors))
	y = p.renderer.DrawLabelValue(x, y, "Nearest", fmt.Sprintf("%.3f", b.Nearest))
	y += 4

	y = p.drawVec(x, y, "Separation", b.Separation)
	y = p.drawVec(x, y, "Cohesion", b.Cohesion)
	y = p.drawVec(x, y, "Alignment", b.Alignment)
	y = p.drawVec(x, y, "Border", b.Border)
	y = p.drawVec(x, y, "Inertia", b.Inertia)
	p.drawVec(x, y, "Sum", b.Sum)
}

// drawVec draws a vector with its magnitude.
func (p *AgentPanel) drawVec(x, y int32, label string, v systems.Vec2) int32 {
	text := fmt.Sprintf("(%+.3f, %+.3f) |%.3f|", v.X, v.Y, v.Len())
	if v.LenSq() == 0 {
		rl.DrawText(label+":", x, y, p.renderer.Theme.FontSize, p.renderer.Theme.LabelColor)
		rl.DrawText("-", x+p.renderer.Theme.LabelWidth, y, p.renderer.Theme.FontSize, rl.Gray)
		return y + p.renderer.Theme.LineHeight
	}
	return p.renderer.DrawLabelValue(x, y, label, text)
}
