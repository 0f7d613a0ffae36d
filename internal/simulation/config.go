package simulation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bounds defines the rectangle in the x/y plane that cells are confined to.
// z is left unconstrained.
type Bounds struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

// Config holds the immutable parameters of a simulation run. It is built once
// before the run starts and only read afterwards.
type Config struct {
	// Bounds of the confinement rectangle for the cell layer.
	Bounds Bounds `yaml:"bounds"`
	// BoundSpace toggles confinement in the mechanical solver; the per-cell
	// containment step runs either way.
	BoundSpace bool `yaml:"bound_space"`
	// CubeDim is the edge length of the cubic simulation volume.
	CubeDim float64 `yaml:"cube_dim"`

	// GrowthThreshold is the diameter at which a cell stops growing and
	// becomes eligible for division.
	GrowthThreshold float64 `yaml:"growth_threshold"`
	// GrowthRate is the volume increase requested per step, in volume units
	// per unit time; the mechanics engine scales it by TimeStep.
	GrowthRate float64 `yaml:"growth_rate"`
	// BoundaryMargin keeps clamped cells just inside the rectangle edge.
	BoundaryMargin float64 `yaml:"boundary_margin"`

	// TimeStep is the simulated time elapsed per step.
	TimeStep float64 `yaml:"time_step"`
	// Steps is the default number of steps for a run.
	Steps int `yaml:"steps"`

	// Initial population parameters.
	NumCells         int     `yaml:"num_cells"`
	InitialDiameter  float64 `yaml:"initial_diameter"`
	InitialMass      float64 `yaml:"initial_mass"`
	InitialAdherence float64 `yaml:"initial_adherence"`
}

// DefaultConfig returns the baseline configuration: a 150x150 confinement
// rectangle centered on the origin inside a 4500-unit cube, with a 2D layer
// of 10 precursor cells seeded at the bottom of the cube.
func DefaultConfig() Config {
	const xRange, yRange = 150.0, 150.0
	return Config{
		Bounds: Bounds{
			XMin: -xRange / 2,
			XMax: xRange / 2,
			YMin: -yRange / 2,
			YMax: yRange / 2,
		},
		BoundSpace:       true,
		CubeDim:          4500,
		GrowthThreshold:  8,
		GrowthRate:       300,
		BoundaryMargin:   0.01,
		TimeStep:         0.01,
		Steps:            600,
		NumCells:         10,
		InitialDiameter:  6,
		InitialMass:      0.1,
		InitialAdherence: 0.0001,
	}
}

// ZInit returns the z coordinate of the seeded cell layer, the bottom face of
// the simulation cube.
func (c Config) ZInit() float64 {
	return -c.CubeDim / 2
}

// Validate checks that the configuration describes a usable simulation space.
func (c Config) Validate() error {
	if c.Bounds.XMin >= c.Bounds.XMax {
		return fmt.Errorf("x bounds must satisfy min < max, got [%g, %g]", c.Bounds.XMin, c.Bounds.XMax)
	}
	if c.Bounds.YMin >= c.Bounds.YMax {
		return fmt.Errorf("y bounds must satisfy min < max, got [%g, %g]", c.Bounds.YMin, c.Bounds.YMax)
	}
	if c.GrowthThreshold <= 0 {
		return fmt.Errorf("growth threshold must be positive, got %g", c.GrowthThreshold)
	}
	if c.InitialDiameter <= 0 {
		return fmt.Errorf("initial diameter must be positive, got %g", c.InitialDiameter)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %g", c.TimeStep)
	}
	return nil
}

// LoadConfig reads a YAML configuration file, applying its values on top of
// DefaultConfig so partial files are valid.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
