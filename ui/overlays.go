package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayVisionRings OverlayID = "vision_rings"
	OverlayPathColors  OverlayID = "path_colors"
	OverlayStateColors OverlayID = "state_colors"
	OverlayControls    OverlayID = "controls"
	OverlayPerf        OverlayID = "perf"
	OverlayInspector   OverlayID = "inspector"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // Keyboard key to toggle (0 = no key)
	KeyLabel  string // Key label for display (e.g., "V")
	Default   bool   // enabled at startup
	Exclusive []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayStateColors, Name: "State Colors", Key: rl.KeyS, KeyLabel: "S", Default: true,
		Exclusive: []OverlayID{OverlayPathColors}})
	r.Register(OverlayDescriptor{ID: OverlayPathColors, Name: "Path Colors", Key: rl.KeyK, KeyLabel: "K",
		Exclusive: []OverlayID{OverlayStateColors}})
	r.Register(OverlayDescriptor{ID: OverlayVisionRings, Name: "Vision Rings", Key: rl.KeyV, KeyLabel: "V"})
	r.Register(OverlayDescriptor{ID: OverlayInspector, Name: "Inspector", Key: rl.KeyI, KeyLabel: "I", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayControls, Name: "Controls", Key: rl.KeyC, KeyLabel: "C", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Perf", Key: rl.KeyP, KeyLabel: "P"})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the overlay bound to key.
// Returns the overlay ID, its new state, and whether a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Legend returns "K: Name" pairs for the control legend.
func (r *OverlayRegistry) Legend() string {
	var s string
	for i, desc := range r.descriptors {
		if desc.KeyLabel == "" {
			continue
		}
		if i > 0 {
			s += " | "
		}
		s += desc.KeyLabel + ": " + desc.Name
	}
	return s
}
