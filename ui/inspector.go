package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/systems"
)

// InspectorData is what the hover inspector shows for one slime.
type InspectorData struct {
	Slime           systems.SlimeView
	Tick            int64
	SkillCap        int
	BreedThreshold  float32
	JumpRequirement float32
}

// SkillColor returns the display color of a skill path.
func SkillColor(k components.SkillKind) rl.Color {
	switch k {
	case components.SkillVision:
		return rl.Color{R: 90, G: 170, B: 255, A: 255}
	case components.SkillEfficiency:
		return rl.Color{R: 120, G: 220, B: 110, A: 255}
	case components.SkillJumper:
		return rl.Color{R: 240, G: 160, B: 60, A: 255}
	}
	return rl.LightGray
}

func inspected(data any) InspectorData {
	d, _ := data.(InspectorData)
	return d
}

// skillField builds the bar for one skill level.
func skillField(k components.SkillKind) FieldDescriptor {
	return FieldDescriptor{
		ID:     "skill_" + k.String(),
		Label:  k.String(),
		Widget: WidgetBar,
		Color:  SkillColor(k),
		Getter: func(d any) float32 { return float32(inspected(d).Slime.Skills.Level(k)) },
		RangeGetter: func(d any) FieldRange {
			return FieldRange{Max: float32(max(inspected(d).SkillCap, 1))}
		},
		TextGetter: func(d any) string { return fmt.Sprintf("%d", inspected(d).Slime.Skills.Level(k)) },
	}
}

// slimePanel describes the inspector layout.
func slimePanel(width int32) PanelDescriptor {
	return PanelDescriptor{
		ID:    "slime_inspector",
		Width: width,
		Sections: []SectionDescriptor{
			{
				ID: "identity",
				Fields: []FieldDescriptor{
					{ID: "id", Label: "Slime", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("#%d (gen %d)", inspected(d).Slime.ID, inspected(d).Slime.Generation) }},
					{ID: "state", Label: "State", Widget: WidgetText,
						TextGetter: func(d any) string { return inspected(d).Slime.State.String() }},
					{ID: "path", Label: "Path", Widget: WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color { return SkillColor(inspected(d).Slime.Path) }},
				},
			},
			{
				ID:    "energy",
				Title: "Energy",
				Fields: []FieldDescriptor{
					{ID: "energy", Label: "Energy", Widget: WidgetBar, Format: "%.1f",
						Getter: func(d any) float32 { return inspected(d).Slime.Energy },
						RangeGetter: func(d any) FieldRange {
							return FieldRange{Max: max(inspected(d).BreedThreshold, 1)}
						}},
					{ID: "jump", Label: "Jump", Widget: WidgetText,
						TextGetter: func(d any) string {
							in := inspected(d)
							if in.Slime.Energy >= in.JumpRequirement {
								return "ready"
							}
							return fmt.Sprintf("needs %.0f", in.JumpRequirement)
						}},
					{ID: "size", Label: "Size", Widget: WidgetText, Format: "%.1f",
						Getter: func(d any) float32 { return inspected(d).Slime.Size }},
					{ID: "vision", Label: "Vision", Widget: WidgetText, Format: "%.1f",
						Getter: func(d any) float32 { return inspected(d).Slime.VisionRadius }},
					{ID: "next", Label: "Evolves", Widget: WidgetText,
						TextGetter: func(d any) string {
							next := inspected(d).Slime.NextEvolution
							if math.IsInf(float64(next), 1) {
								return "capped"
							}
							return fmt.Sprintf("at %.0f", next)
						}},
				},
			},
			{
				ID:    "skills",
				Title: "Skills",
				Fields: []FieldDescriptor{
					skillField(components.SkillVision),
					skillField(components.SkillEfficiency),
					skillField(components.SkillJumper),
				},
			},
			{
				ID:    "timers",
				Title: "Cooldowns",
				Fields: []FieldDescriptor{
					{ID: "last_jump", Label: "Jumped", Widget: WidgetText,
						TextGetter: func(d any) string { return ticksAgo(inspected(d).Tick, inspected(d).Slime.LastJump) }},
					{ID: "last_breed", Label: "Bred", Widget: WidgetText,
						TextGetter: func(d any) string { return ticksAgo(inspected(d).Tick, inspected(d).Slime.LastBreed) }},
				},
			},
		},
	}
}

func ticksAgo(now, then int64) string {
	return fmt.Sprintf("%d ticks ago", max(now-then, 0))
}

// Inspector renders the hover panel for the slime under the pointer.
type Inspector struct {
	renderer *Renderer
	panel    PanelDescriptor
}

// NewInspector creates an inspector panel of the given width.
func NewInspector(width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		panel:    slimePanel(width),
	}
}

// Draw renders the panel next to the pointer, kept on screen.
func (ins *Inspector) Draw(data InspectorData, mouseX, mouseY, screenW, screenH int32) {
	h := ins.renderer.MeasurePanel(ins.panel, data)
	w := ins.panel.Width

	x := mouseX + 15
	y := mouseY + 15
	if x+w > screenW-10 {
		x = mouseX - w - 10
	}
	if y+h > screenH-10 {
		y = mouseY - h - 10
	}
	ins.renderer.DrawPanelDescriptor(x, y, ins.panel, data)
}
