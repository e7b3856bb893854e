package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slimes/config"
)

// Slider binds a raygui slider to one config field.
type Slider struct {
	Label   string
	Min     float32
	Max     float32
	Integer bool
	Get     func(c *config.Config) float32
	Set     func(c *config.Config, v float32)
}

// DefaultSliders returns the tunable parameters shown in the controls panel.
// Setters keep paired ranges ordered so the config stays valid.
func DefaultSliders() []Slider {
	return []Slider{
		{Label: "Sim speed", Min: 1, Max: 20, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Simulation.Speed) },
			Set: func(c *config.Config, v float32) {
				c.Simulation.Speed = min(max(int(v), 1), c.Simulation.MaxSpeed)
			}},
		{Label: "Food interval", Min: 1, Max: 120, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Food.SpawnInterval) },
			Set: func(c *config.Config, v float32) { c.Food.SpawnInterval = max(int64(v), 1) }},
		{Label: "Food cap", Min: 0, Max: 500, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Food.Cap) },
			Set: func(c *config.Config, v float32) { c.Food.Cap = max(int(v), 0) }},
		{Label: "Food energy min", Min: 0, Max: 50,
			Get: func(c *config.Config) float32 { return float32(c.Food.EnergyMin) },
			Set: func(c *config.Config, v float32) {
				c.Food.EnergyMin = float64(v)
				c.Food.EnergyMax = math.Max(c.Food.EnergyMax, c.Food.EnergyMin)
			}},
		{Label: "Food energy max", Min: 0, Max: 50,
			Get: func(c *config.Config) float32 { return float32(c.Food.EnergyMax) },
			Set: func(c *config.Config, v float32) {
				c.Food.EnergyMax = float64(v)
				c.Food.EnergyMin = math.Min(c.Food.EnergyMin, c.Food.EnergyMax)
			}},
		{Label: "Food speed min", Min: 0, Max: 5,
			Get: func(c *config.Config) float32 { return float32(c.Food.SpeedMin) },
			Set: func(c *config.Config, v float32) {
				c.Food.SpeedMin = float64(v)
				c.Food.SpeedMax = math.Max(c.Food.SpeedMax, c.Food.SpeedMin)
			}},
		{Label: "Food speed max", Min: 0, Max: 5,
			Get: func(c *config.Config) float32 { return float32(c.Food.SpeedMax) },
			Set: func(c *config.Config, v float32) {
				c.Food.SpeedMax = float64(v)
				c.Food.SpeedMin = math.Min(c.Food.SpeedMin, c.Food.SpeedMax)
			}},
		{Label: "Step cost", Min: 0, Max: 1,
			Get: func(c *config.Config) float32 { return float32(c.Slime.StepCost) },
			Set: func(c *config.Config, v float32) { c.Slime.StepCost = float64(v) }},
		{Label: "Vision range", Min: 0, Max: 200,
			Get: func(c *config.Config) float32 { return float32(c.Slime.VisionRange) },
			Set: func(c *config.Config, v float32) { c.Slime.VisionRange = float64(v) }},
		{Label: "Jump cooldown", Min: 0, Max: 600, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Jump.Cooldown) },
			Set: func(c *config.Config, v float32) { c.Jump.Cooldown = max(int64(v), 0) }},
		{Label: "Breed threshold", Min: 30, Max: 300,
			Get: func(c *config.Config) float32 { return float32(c.Breeding.Threshold) },
			Set: func(c *config.Config, v float32) {
				c.Breeding.Threshold = math.Max(float64(v), c.Slime.InitialEnergy)
			}},
		{Label: "Breed cooldown", Min: 0, Max: 1200, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Breeding.Cooldown) },
			Set: func(c *config.Config, v float32) { c.Breeding.Cooldown = max(int64(v), 0) }},
		{Label: "Vision skill", Min: 0, Max: 3,
			Get: func(c *config.Config) float32 { return float32(c.Skills.VisionStrength) },
			Set: func(c *config.Config, v float32) { c.Skills.VisionStrength = float64(v) }},
		{Label: "Efficiency skill", Min: 0, Max: 3,
			Get: func(c *config.Config) float32 { return float32(c.Skills.EfficiencyStrength) },
			Set: func(c *config.Config, v float32) { c.Skills.EfficiencyStrength = float64(v) }},
		{Label: "Jumper skill", Min: 0, Max: 3,
			Get: func(c *config.Config) float32 { return float32(c.Skills.JumperStrength) },
			Set: func(c *config.Config, v float32) { c.Skills.JumperStrength = float64(v) }},
	}
}

// ControlActions reports which buttons were pressed this frame.
type ControlActions struct {
	Reset      bool
	SpawnFood  bool
	SpawnSlime bool
}

// ControlsPanel renders the raygui sliders and action buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	sliders  []Slider
}

// NewControlsPanel creates a controls panel with the default sliders.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		sliders:  DefaultSliders(),
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the panel, so clicks there
// are not treated as world input.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height())
}

const (
	sliderRow  = 34
	buttonRow  = 36
	buttonSize = 28
)

func (c *ControlsPanel) height() int32 {
	p := c.renderer.Theme.Padding
	return p*2 + 20 + int32(len(c.sliders))*sliderRow + buttonRow
}

// Draw renders the panel, applies slider changes to cfg and returns the
// buttons pressed this frame.
func (c *ControlsPanel) Draw(cfg *config.Config) ControlActions {
	var actions ControlActions
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	c.renderer.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	inner := float32(c.width - padding*2)

	rl.DrawText("Controls [C]", int32(x), int32(y), 16, rl.White)
	y += 20

	for _, s := range c.sliders {
		cur := s.Get(cfg)
		rl.DrawText(s.Label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawText(sliderText(s, cur), int32(x+inner-50), int32(y), r.Theme.FontSize, r.Theme.ValueColor)
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y + 14, Width: inner, Height: 14},
			"", "",
			cur, s.Min, s.Max,
		)
		if s.Integer {
			next = float32(math.Round(float64(next)))
		}
		if next != cur {
			s.Set(cfg, next)
		}
		y += sliderRow
	}

	gap := float32(padding) / 2
	bw := (inner - 2*gap) / 3
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: buttonSize}, "Reset") {
		actions.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + bw + gap, Y: y, Width: bw, Height: buttonSize}, "+ Food") {
		actions.SpawnFood = true
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+gap), Y: y, Width: bw, Height: buttonSize}, "+ Slime") {
		actions.SpawnSlime = true
	}

	return actions
}

func sliderText(s Slider, v float32) string {
	if s.Integer {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.2f", v)
}
