package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/systems"
	"github.com/pthm-cable/slimes/telemetry"
	"github.com/pthm-cable/slimes/ui"
)

var (
	backgroundColor = rl.Color{R: 18, G: 22, B: 28, A: 255}
	foodColor       = rl.Color{R: 230, G: 210, B: 90, A: 255}
	visionColor     = rl.Color{R: 255, G: 255, B: 255, A: 40}
)

// stateColor returns the body color of a slime in the given state.
func stateColor(s components.State) rl.Color {
	switch s {
	case components.StateJumping:
		return rl.Color{R: 250, G: 150, B: 50, A: 255}
	case components.StateBreeding:
		return rl.Color{R: 240, G: 100, B: 180, A: 255}
	default:
		return rl.Color{R: 90, G: 200, B: 120, A: 255}
	}
}

// Draw renders one frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	g.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	g.drawFood()
	g.drawSlimes()
	g.drawUI()

	rl.EndDrawing()
}

// drawFood renders food as small circles, brighter with more energy.
func (g *Game) drawFood() {
	emax := float32(g.food.Config().EnergyMax)
	for _, f := range g.food.Snapshot() {
		c := foodColor
		if emax > 0 {
			c.A = uint8(120 + min(f.Energy/emax, 1)*135)
		}
		g.drawDisc(f.X, f.Y, f.Radius, c)
	}
}

// drawSlimes renders slimes as circles sized by energy.
func (g *Game) drawSlimes() {
	byPath := g.overlays.IsEnabled(ui.OverlayPathColors)
	rings := g.overlays.IsEnabled(ui.OverlayVisionRings)

	for _, s := range g.slimes.Snapshot() {
		if rings {
			g.drawRing(s.X, s.Y, s.VisionRadius, visionColor)
		}

		c := stateColor(s.State)
		if byPath {
			c = ui.SkillColor(s.Path)
		}
		g.drawDisc(s.X, s.Y, s.Size, c)
		g.drawRing(s.X, s.Y, s.Size, rl.Fade(rl.Black, 0.5))
	}

	if g.hovering {
		if s, ok := g.slimes.Get(g.hovered.Entity); ok {
			g.drawRing(s.X, s.Y, s.Size+3, rl.White)
			g.drawRing(s.X, s.Y, s.VisionRadius, rl.Fade(rl.White, 0.4))
		} else {
			g.hovering = false
		}
	}
}

// drawDisc fills a field-space circle at every visible wrap position.
func (g *Game) drawDisc(x, y, radius float32, c rl.Color) {
	g.copyBuf = g.cam.Copies(x, y, radius, g.copyBuf)
	for _, p := range g.copyBuf {
		rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, radius*g.cam.Zoom, c)
	}
}

// drawRing outlines a field-space circle at every visible wrap position.
func (g *Game) drawRing(x, y, radius float32, c rl.Color) {
	g.copyBuf = g.cam.Copies(x, y, radius, g.copyBuf)
	for _, p := range g.copyBuf {
		rl.DrawCircleLines(int32(p.X), int32(p.Y), radius*g.cam.Zoom, c)
	}
}

// drawUI renders the HUD and the enabled panels.
func (g *Game) drawUI() {
	st := g.Status()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	g.hud.Draw(ui.HUDData{
		Title:       "Slimes",
		Slimes:      st.Slimes,
		Food:        st.Food,
		FoodCap:     st.FoodCap,
		SkillTotals: st.SkillTotals,
		Tick:        st.Tick,
		SimTime:     st.SimTime,
		Speed:       st.Speed,
		FPS:         rl.GetFPS(),
		Paused:      st.Paused,
	})

	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controls.SetPosition(screenW-270, 10)
		g.applyActions(g.controls.Draw(g.cfg))
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.drawPerf(screenW, screenH)
	}

	if g.hovering && g.overlays.IsEnabled(ui.OverlayInspector) {
		if s, ok := g.slimes.Get(g.hovered.Entity); ok {
			mouse := rl.GetMousePosition()
			g.inspect.Draw(g.inspectorData(s), int32(mouse.X), int32(mouse.Y), screenW, screenH)
		}
	}

	g.hud.DrawControls(screenH,
		"SPACE: Pause | < >: Speed | R: Reset | F: Food | N: Slime | Click: Drop food | Wheel/RMB: Zoom/Pan | Home: View | "+g.overlays.Legend())
}

// inspectorData builds the inspector readout for a slime.
func (g *Game) inspectorData(s systems.SlimeView) ui.InspectorData {
	return ui.InspectorData{
		Slime:           s,
		Tick:            g.tick,
		SkillCap:        g.cfg.Skills.Cap,
		BreedThreshold:  float32(g.cfg.Breeding.Threshold),
		JumpRequirement: float32(g.cfg.Jump.Requirement),
	}
}

// drawPerf renders the tick phase timings.
func (g *Game) drawPerf(screenW, screenH int32) {
	stats := g.perfCollector.Stats()
	g.perf.SetPosition(screenW-270, screenH-40-int32(len(telemetry.Phases))*14-36)
	g.perf.Draw(ui.PerfPanelData{
		PhaseTimes:     stats.PhaseAvg,
		Total:          stats.AvgTickDuration,
		TicksPerSecond: stats.TicksPerSecond,
		Registry:       g.registry,
	})
}

// applyActions runs the control panel buttons.
func (g *Game) applyActions(a ui.ControlActions) {
	if a.Reset {
		g.Reset()
	}
	if a.SpawnFood {
		g.SpawnFood()
	}
	if a.SpawnSlime {
		g.SpawnSlime()
	}
}
