// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON string

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Flocking   FlockingConfig   `yaml:"flocking"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Camera     CameraConfig     `yaml:"camera"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// WorldConfig describes the square domain [-size, size]².
type WorldConfig struct {
	Size   int     `yaml:"size"`   // Half extent in world units; also the grid half extent
	Border float64 `yaml:"border"` // Margin inside which border repulsion applies
}

// PopulationConfig holds initial population parameters.
type PopulationConfig struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"`
}

// FlockingConfig holds steering rule weights.
type FlockingConfig struct {
	ViewRadius   float64 `yaml:"view_radius"`
	Separation   float64 `yaml:"separation"`
	Cohesion     float64 `yaml:"cohesion"`
	Alignment    float64 `yaml:"alignment"`
	BorderWeight float64 `yaml:"border_weight"`
	Inertia      float64 `yaml:"inertia"` // Weight of the previous heading in the steering sum (0 = off)
	Speed        float64 `yaml:"speed"`   // World units per second
}

// PhysicsConfig holds time stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Fixed step used by headless runs
}

// ParallelConfig controls the worker pool.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Below this agent count phases run inline
}

// CameraConfig holds viewport zoom parameters.
type CameraConfig struct {
	InitialZoom float64 `yaml:"initial_zoom"` // Pixels per world unit multiplier at startup
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	ZoomStep    float64 `yaml:"zoom_step"` // Relative change per wheel notch
}

// TelemetryConfig holds telemetry and perf settings.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks in the rolling perf window
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32             float32
	Size32           float32
	Border32         float32
	ViewRadius32     float32
	ViewRadiusSq32   float32
	Speed32          float32
	ScreenW32        float32
	ScreenH32        float32
	Workers          int
	StatsWindowTicks int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults with derived values filled in.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The merged result is
// validated against the embedded schema.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the configuration against the embedded JSON schema.
func (c *Config) Validate() error {
	sch, err := jsonschema.CompileString("schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	doc, err := c.document()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// document converts the config to the generic JSON value the validator expects.
// YAML decodes into Go maps; the JSON round trip normalizes numbers and keys.
func (c *Config) document() (any, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	js, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("normalizing config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, fmt.Errorf("normalizing config: %w", err)
	}
	return doc, nil
}

// Derive recomputes Derived after fields were changed in code.
func (c *Config) Derive() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Size32 = float32(c.World.Size)
	c.Derived.Border32 = float32(c.World.Border)
	c.Derived.ViewRadius32 = float32(c.Flocking.ViewRadius)
	c.Derived.ViewRadiusSq32 = c.Derived.ViewRadius32 * c.Derived.ViewRadius32
	c.Derived.Speed32 = float32(c.Flocking.Speed)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.Workers = c.Parallel.Workers
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}

	ticks := int32(1)
	if c.Physics.DT > 0 {
		ticks = int32(c.Telemetry.StatsWindow / c.Physics.DT)
	}
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsWindowTicks = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
