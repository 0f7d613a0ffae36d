package simulation

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"celldivision-sim/internal/common"
	"celldivision-sim/internal/geometry"

	"gonum.org/v1/gonum/stat"
)

// Simulation holds the cell population and drives discrete steps. It owns the
// random source used for seeding and division geometry and implements the
// Environment contract consumed by behaviors.
//
// Within a step each cell's behavior only mutates its own cell; daughters
// created during step n are parked on a pending list and join the population
// when the step ends, so they are first evaluated at step n+1.
type Simulation struct {
	cfg     Config
	cells   []*Cell
	byID    map[string]*Cell
	pending []*Cell

	rng    *rand.Rand
	logger *slog.Logger

	stepCount      int
	simulationTime float64
	divisions      int
}

// Option overrides a Simulation default.
type Option func(*Simulation)

// WithSeed makes the run reproducible by fixing the random source.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the structured logger used for run and step reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// NewSimulation creates a simulation environment from a validated config.
func NewSimulation(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:    cfg,
		byID:   make(map[string]*Cell),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the run configuration.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Reserve pre-allocates capacity for a known number of cells before seeding.
func (s *Simulation) Reserve(n int) {
	if n <= cap(s.cells)-len(s.cells) {
		return
	}
	cells := make([]*Cell, len(s.cells), len(s.cells)+n)
	copy(cells, s.cells)
	s.cells = cells
}

// AddCell registers a cell into the population so it is scheduled from the
// next step onward.
func (s *Simulation) AddCell(c *Cell) error {
	if c.position.Dimension() != 3 {
		return fmt.Errorf("cell position must be 3-dimensional, got %d", c.position.Dimension())
	}
	if _, exists := s.byID[c.id]; exists {
		return fmt.Errorf("cell with ID %s already exists", c.id)
	}
	s.cells = append(s.cells, c)
	s.byID[c.id] = c
	return nil
}

// AddRandomCell seeds one precursor cell at a uniformly random x/y position
// inside the confinement rectangle, on the bottom layer of the simulation
// cube, with the configured initial diameter, mass and adherence, and the
// growth-division behavior attached.
func (s *Simulation) AddRandomCell() (*Cell, error) {
	b := s.cfg.Bounds
	xy, err := common.NewRandomVector(s.rng, 2, []float64{b.XMin, b.XMax, b.YMin, b.YMax})
	if err != nil {
		return nil, fmt.Errorf("failed to generate random position for cell: %w", err)
	}
	pos := common.Vector{xy[0], xy[1], s.cfg.ZInit()}

	cell := NewCell(pos)
	if err := cell.SetDiameter(s.cfg.InitialDiameter); err != nil {
		return nil, err
	}
	cell.SetMass(s.cfg.InitialMass)
	cell.SetAdherence(s.cfg.InitialAdherence)
	cell.AddBehavior(NewGrowthDivision(s.cfg))

	if err := s.AddCell(cell); err != nil {
		return nil, err
	}
	return cell, nil
}

// SeedPopulation creates the configured initial 2D layer of precursor cells.
func (s *Simulation) SeedPopulation() error {
	s.Reserve(s.cfg.NumCells)
	for i := 0; i < s.cfg.NumCells; i++ {
		if _, err := s.AddRandomCell(); err != nil {
			return fmt.Errorf("failed to seed cell %d: %w", i, err)
		}
	}
	return nil
}

// GetCell returns a cell by its ID.
func (s *Simulation) GetCell(id string) (*Cell, bool) {
	c, exists := s.byID[id]
	return c, exists
}

// Cells returns a snapshot slice of the current population.
func (s *Simulation) Cells() []*Cell {
	cells := make([]*Cell, len(s.cells))
	copy(cells, s.cells)
	return cells
}

// CellCount returns the current population size.
func (s *Simulation) CellCount() int {
	return len(s.cells)
}

// StepCount returns the number of completed steps.
func (s *Simulation) StepCount() int {
	return s.stepCount
}

// CurrentTime returns the total elapsed simulation time.
func (s *Simulation) CurrentTime() float64 {
	return s.simulationTime
}

// Divisions returns the number of division events so far.
func (s *Simulation) Divisions() int {
	return s.divisions
}

// MeanDiameter returns the average cell diameter of the population.
func (s *Simulation) MeanDiameter() float64 {
	if len(s.cells) == 0 {
		return 0
	}
	diameters := make([]float64, len(s.cells))
	for i, c := range s.cells {
		diameters[i] = c.diameter
	}
	return stat.Mean(diameters, nil)
}

// ChangeVolume adjusts the cell's diameter by applying a volume change at the
// given rate, scaled by the configured time step. The diameter is left
// untouched if the change would not leave a positive volume.
func (s *Simulation) ChangeVolume(c *Cell, rate float64) {
	volume := geometry.VolumeFromDiameter(c.diameter) + rate*s.cfg.TimeStep
	if volume <= 0 {
		return
	}
	c.diameter = geometry.DiameterFromVolume(volume)
}

// Divide splits the mother cell in two. The mother's volume is distributed
// between mother and daughter with a ratio drawn around one half, both cells
// are displaced along a random axis so they end up touching, and the daughter
// is registered for scheduling from the next step onward.
func (s *Simulation) Divide(mother *Cell) *Cell {
	daughter := deriveDaughter(mother)

	volume := geometry.VolumeFromDiameter(mother.diameter)
	ratio := 0.45 + 0.1*s.rng.Float64()
	daughter.diameter = geometry.DiameterFromVolume(volume * ratio)
	mother.diameter = geometry.DiameterFromVolume(volume * (1 - ratio))

	axis := geometry.RandomUnitVector(s.rng)
	daughterPos, _ := mother.position.Add(axis.Scale(daughter.diameter / 2))
	motherPos, _ := mother.position.Subtract(axis.Scale(mother.diameter / 2))
	daughter.position = daughterPos
	mother.position = motherPos

	s.pending = append(s.pending, daughter)
	s.divisions++

	s.logger.Debug("cell divided",
		"mother", mother.id,
		"daughter", daughter.id,
		"color", mother.color,
		"daughter_diameter", daughter.diameter,
	)
	return daughter
}

// Step runs every live cell's behaviors once, then registers the daughters
// created during the step.
func (s *Simulation) Step() {
	s.stepCount++
	s.simulationTime += s.cfg.TimeStep

	// Behaviors append daughters to s.pending, never to s.cells, so the
	// population iterated here is the step-start snapshot.
	for _, c := range s.cells {
		for _, b := range c.behaviors {
			b.Run(c, s)
		}
	}

	if len(s.pending) > 0 {
		s.cells = append(s.cells, s.pending...)
		for _, c := range s.pending {
			s.byID[c.id] = c
		}
		s.pending = nil
	}
}

// Run executes the simulation loop for a given number of steps.
func (s *Simulation) Run(numSteps int) {
	s.logger.Info("starting simulation",
		"steps", numSteps,
		"cells", len(s.cells),
		"bounds", fmt.Sprintf("x:[%g, %g] y:[%g, %g]", s.cfg.Bounds.XMin, s.cfg.Bounds.XMax, s.cfg.Bounds.YMin, s.cfg.Bounds.YMax),
		"time_step", s.cfg.TimeStep,
	)

	for i := 0; i < numSteps; i++ {
		s.Step()
		s.logger.Debug("step completed",
			"step", s.stepCount,
			"time", s.simulationTime,
			"cells", len(s.cells),
			"mean_diameter", s.MeanDiameter(),
		)
	}

	s.logger.Info("simulation completed",
		"steps", s.stepCount,
		"time", s.simulationTime,
		"cells", len(s.cells),
		"divisions", s.divisions,
		"mean_diameter", s.MeanDiameter(),
	)
}
