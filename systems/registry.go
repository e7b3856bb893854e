package systems

// SystemInfo describes a tick phase for UI display.
type SystemInfo struct {
	ID          string // phase name used by the perf collector
	Name        string // Display name
	Description string
	Category    string // "world", "population" or "internal"
}

// SystemRegistry keeps phase naming in one place so the perf panel and the
// perf collector agree.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with every tick phase.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the phases in execution order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "food", Name: "Food", Description: "Moves food and runs the spawn check", Category: "world"})
	r.Register(SystemInfo{ID: "slimes", Name: "Slimes", Description: "Upkeep, foraging, breeding, jumping and evolution", Category: "population"})
	r.Register(SystemInfo{ID: "compact", Name: "Compact", Description: "Drops eaten food", Category: "world"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Window stats and CSV output", Category: "internal"})
}

// Register adds a phase to the registry. Registering an existing ID replaces it.
func (r *SystemRegistry) Register(info SystemInfo) {
	if _, ok := r.byID[info.ID]; ok {
		for i := range r.systems {
			if r.systems[i].ID == info.ID {
				r.systems[i] = info
			}
		}
	} else {
		r.systems = append(r.systems, info)
	}
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
