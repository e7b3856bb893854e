package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Slimes      int
	Food        int
	FoodCap     int
	SkillTotals [3]int
	Tick        int64
	SimTime     float64 // seconds
	Speed       int
	FPS         int32
	Paused      bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// FormatSimTime renders elapsed simulated seconds as m:ss.t.
func FormatSimTime(sec float64) string {
	d := time.Duration(sec * float64(time.Second)).Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", m, s)
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Slimes: %d | Food: %d/%d", data.Slimes, data.Food, data.FoodCap),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Time: %s | Tick: %d | Speed: %dx | FPS: %d", FormatSimTime(data.SimTime), data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	// Per-skill totals, each in its path color
	x := int32(10)
	for _, k := range components.SkillKinds() {
		text := fmt.Sprintf("%s: %d", k, data.SkillTotals[k])
		rl.DrawText(text, x, 75, 16, SkillColor(k))
		x += rl.MeasureText(text, 16) + 16
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes     map[string]time.Duration
	Total          time.Duration
	TicksPerSecond float64
	Registry       *systems.SystemRegistry
}

// PerfPanel renders the tick phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the phases in registry order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s  TPS: %.0f", data.Total.Round(time.Microsecond), data.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	if data.Registry == nil {
		return
	}
	for _, info := range data.Registry.All() {
		avg := data.PhaseTimes[info.ID]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", info.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
