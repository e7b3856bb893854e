package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slimes/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetSpeed(g.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetSpeed(g.Speed() + 1)
	}

	// Actions
	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.SpawnFood()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.SpawnSlime()
	}

	// Overlay toggles
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok && id == ui.OverlayControls && on != g.controls.IsVisible() {
			g.controls.Toggle()
		}
	}

	// View: wheel zooms at the pointer, right drag pans, Home resets
	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomAt(1+0.1*wheel, mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.cam.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}

	overPanel := g.overlays.IsEnabled(ui.OverlayControls) && g.controls.Contains(mouse.X, mouse.Y)
	wx, wy := g.cam.ScreenToWorld(mouse.X, mouse.Y)
	g.updateHover(wx, wy, !overPanel)

	// Click on open field drops a stationary food item
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !overPanel {
		g.PlaceFood(wx, wy)
	}
}
