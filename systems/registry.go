package systems

// SystemInfo describes a simulation phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "internal")
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes naming so the perf panel and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the tick phases in execution order.
// IDs must match the telemetry phase constants.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "snapshot", Name: "Snapshot", Description: "Copies agent state out of the ECS world", Category: "internal"})
	r.Register(SystemInfo{ID: "neighbors", Name: "Neighbors", Description: "Rebuilds neighbor caches from the grid", Category: "core"})
	r.Register(SystemInfo{ID: "rules", Name: "Rules", Description: "Separation, cohesion, alignment and border", Category: "core"})
	r.Register(SystemInfo{ID: "integrate", Name: "Integrate", Description: "Normalizes headings and advances positions", Category: "core"})
	r.Register(SystemInfo{ID: "apply", Name: "Apply", Description: "Commits positions and grid moves", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Window statistics", Category: "internal"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
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

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
